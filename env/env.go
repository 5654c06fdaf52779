package env

type Args struct {
	Test    *bool
	Mute    *bool
	Verbose *bool
	Scale   *string
	Seed    *int64
}
