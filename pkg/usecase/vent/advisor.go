package vent

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/virtualvitae/vitae/pkg/model"
)

// DefaultAdvisorEmail is the year advisor contact; override via configuration.
const DefaultAdvisorEmail = "josiah.lau1@det.nsw.edu.au"

// AdvisorMail is a composed-but-unsent hand-off to the host mail client.
// Only the three strings are produced here; delivery is the host's business.
type AdvisorMail struct {
	Recipient string
	Subject   string
	Body      string
}

// ComposeAdvisorMail formats the reflection and its reply for the advisor.
func ComposeAdvisorMail(advisor string, identity model.Identity, reflection, response string) AdvisorMail {
	body := fmt.Sprintf("Hello Mr. Lau,\n\nI am sharing my thoughts from Virtual Vitae.\n\nMy Vent:\n%q\n\nReflection received:\n%q\n\nRegards,\n%s\n(%s)",
		reflection, response, identity.DisplayName(), identity.Email)

	return AdvisorMail{
		Recipient: advisor,
		Subject:   "Student Vent Reflection: " + identity.DisplayName(),
		Body:      body,
	}
}

// MailtoURL renders the hand-off as a mailto URL the host can open.
func (m AdvisorMail) MailtoURL() string {
	return "mailto:" + m.Recipient +
		"?subject=" + escapeMailtoComponent(m.Subject) +
		"&body=" + escapeMailtoComponent(m.Body)
}

// escapeMailtoComponent percent-encodes a query component. QueryEscape alone
// produces "+" for spaces, which mail clients render literally.
func escapeMailtoComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
