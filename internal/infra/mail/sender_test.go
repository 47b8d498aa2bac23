package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderBodyPersonalizesTemplate(t *testing.T) {
	s := NewTicketSender("smtp.gmail.com", 587, "desk@example.com", "secret", "", "../../../templates/ticket_email.html")

	body, err := s.renderBody(TicketEmailData{
		Name:               "Meera Iyer",
		RegistrationNumber: "24BCE1002",
	})

	require.NoError(t, err)
	assert.Contains(t, body, "Hello Meera Iyer")
	assert.Contains(t, body, `cid:24BCE1002.png`)
}

func TestRenderBodyMissingTemplate(t *testing.T) {
	s := NewTicketSender("smtp.gmail.com", 587, "desk@example.com", "secret", "", "no/such/template.html")

	_, err := s.renderBody(TicketEmailData{Name: "x"})
	assert.Error(t, err)
}

func TestFromDefaultsToUser(t *testing.T) {
	s := NewTicketSender("smtp.gmail.com", 587, "desk@example.com", "secret", "", "templates/ticket_email.html")
	assert.Equal(t, "desk@example.com", s.From)
}

func TestValidate(t *testing.T) {
	configured := NewTicketSender("smtp.gmail.com", 587, "desk@example.com", "secret", "", "templates/ticket_email.html")
	assert.NoError(t, configured.Validate())

	noUser := NewTicketSender("smtp.gmail.com", 587, "", "secret", "desk@example.com", "templates/ticket_email.html")
	assert.Error(t, noUser.Validate())

	noPassword := NewTicketSender("smtp.gmail.com", 587, "desk@example.com", "", "", "templates/ticket_email.html")
	assert.Error(t, noPassword.Validate())
}
