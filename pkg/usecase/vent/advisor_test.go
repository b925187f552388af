package vent_test

import (
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/virtualvitae/vitae/pkg/model"
	"github.com/virtualvitae/vitae/pkg/usecase/vent"
)

func TestComposeAdvisorMail(t *testing.T) {
	identity := model.Identity{FirstName: "Ana", LastName: "Lee", Email: "ana.lee@det.nsw.edu.au"}

	mail := vent.ComposeAdvisorMail(vent.DefaultAdvisorEmail, identity,
		"I feel overwhelmed", "You carried a lot today.")

	gt.Equal(t, mail.Recipient, vent.DefaultAdvisorEmail)
	gt.Equal(t, mail.Subject, "Student Vent Reflection: Ana Lee")
	gt.S(t, mail.Body).Contains(`"I feel overwhelmed"`)
	gt.S(t, mail.Body).Contains(`"You carried a lot today."`)
	gt.S(t, mail.Body).Contains("Ana Lee")
	gt.S(t, mail.Body).Contains("(ana.lee@det.nsw.edu.au)")
}

func TestMailtoURL(t *testing.T) {
	mail := vent.AdvisorMail{
		Recipient: "advisor@det.nsw.edu.au",
		Subject:   "a subject with spaces",
		Body:      "line one\nline two & more",
	}

	u := mail.MailtoURL()
	gt.S(t, u).Contains("mailto:advisor@det.nsw.edu.au?subject=")
	gt.S(t, u).Contains("a%20subject%20with%20spaces")
	gt.S(t, u).Contains("line%20one%0Aline%20two%20%26%20more")
	gt.False(t, strings.Contains(u, "+"))
}
