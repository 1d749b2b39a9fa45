package model

// Status is a named state flag toggled by self-buff skills.
type Status string

const (
	StatusStealth Status = "stealth"
	StatusShield  Status = "shield"
	StatusWarCry  Status = "warcry"
	StatusSmoke   Status = "smoke"
)
