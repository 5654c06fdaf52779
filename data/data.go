package data

import "github.com/cedargrove/windchimes/buffer"

// holder for the rolling histories the status page reports on

type ChimeData struct {
	buffers map[string]*buffer.SampleBuffer
}

func CreateChimeData() *ChimeData {
	cd := ChimeData{}

	cd.buffers = make(map[string]*buffer.SampleBuffer)

	return &cd
}

func (cd *ChimeData) AddBuffer(name string, b *buffer.SampleBuffer) {
	cd.buffers[name] = b
}

func (cd *ChimeData) GetBuffer(name string) *buffer.SampleBuffer {
	return cd.buffers[name]
}

func (cd *ChimeData) Average(name string) float64 {
	b := cd.buffers[name]
	if b == nil {
		return 0
	}
	avg, _, _, _ := b.GetAverageMinMaxSum()
	return float64(avg)
}
