package cmd

// PlaySoundCmd plays a notification sound
type PlaySoundCmd struct {
	Event string `arg:"" optional:"" help:"Event type (done, ask)"`
}

// Run executes the play-sound command
func (p *PlaySoundCmd) Run(container *Container) error {
	if p.Event == "" {
		return container.Sound.PlaySound()
	}
	return container.Sound.PlaySoundForEvent(p.Event)
}
