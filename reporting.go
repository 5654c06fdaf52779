package main

import (
	"encoding/json"
	"time"

	"github.com/cedargrove/windchimes/chime"
	mqtt "github.com/eclipse/paho.mqtt.golang"

	logger "github.com/sirupsen/logrus"
)

// Home automation feed. Every cluster and every wind refresh goes out
// as JSON so the rest of the house can react to the weather the chimes
// are hearing.

const (
	topicStrikes = "chimes/strikes"
	topicWind    = "chimes/wind"
)

type publisher struct {
	client mqtt.Client
}

func newPublisher(broker string) *publisher {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID("windchimes").
		SetAutoReconnect(true).
		SetConnectTimeout(time.Second * 10)
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		logger.Errorf("MQTT connect failed [%v]", token.Error())
		return nil
	}
	logger.Infof("MQTT connected [%v]", broker)
	return &publisher{client: client}
}

type strikeMessage struct {
	Time      string  `json:"time"`
	WindSpeed float64 `json:"wind_speed"`
	Amplitude float64 `json:"amplitude"`
	Notes     []int   `json:"notes"`
}

type windMessage struct {
	Time      string  `json:"time"`
	WindSpeed float64 `json:"wind_speed"`
	Amplitude float64 `json:"amplitude"`
}

func (p *publisher) publishCluster(cluster chime.Cluster, windSpeed float64) {
	notes := make([]int, 0, len(cluster.Events))
	for _, ev := range cluster.Events {
		notes = append(notes, ev.Index)
	}
	p.publish(topicStrikes, strikeMessage{
		Time:      time.Now().Format(time.RFC3339),
		WindSpeed: windSpeed,
		Amplitude: cluster.Events[0].Amplitude,
		Notes:     notes,
	})
}

func (p *publisher) publishWind(windSpeed float64, amplitude float64) {
	p.publish(topicWind, windMessage{
		Time:      time.Now().Format(time.RFC3339),
		WindSpeed: windSpeed,
		Amplitude: amplitude,
	})
}

func (p *publisher) publish(topic string, msg any) {
	js, err := json.Marshal(msg)
	if err != nil {
		logger.Errorf("JSON error [%v]", err)
		return
	}
	// qos 0, fire and forget
	p.client.Publish(topic, 0, false, js)
}
