package configs

type EmailConfig struct {
	Enabled      bool   `yaml:"enabled"`
	SmtpHost     string `yaml:"smtp_host"`
	SmtpPort     int    `yaml:"smtp_port"`
	SmtpUsername string `yaml:"smtp_username"`
	SmtpPassword string `yaml:"smtp_password"`
	SenderEmail  string `yaml:"sender_email"`
}
