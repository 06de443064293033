package models

// AuthConfig lists the local dashboard users. Values are bcrypt hashes as
// produced by the provisioning tool, never plaintext passwords.
type AuthConfig struct {
	Users map[string]string `json:"users"`
}
