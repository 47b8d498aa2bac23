package mail

type TicketEmailData struct {
	Name               string
	RegistrationNumber string
}

type TicketSender struct {
	Host         string
	Port         int
	User         string
	Password     string
	From         string
	TemplatePath string
}
