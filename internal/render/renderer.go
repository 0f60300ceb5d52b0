package render

import (
	"fmt"
	"strings"

	"github.com/freightwiz/loadscout/pkg/models"
)

// Fallback literals substituted when a record field is missing. An email is
// always composable; parsing gaps degrade the text, never the send.
const (
	FallbackOrigin      = "Origin"
	FallbackDestination = "Destination"
	FallbackBroker      = "Broker"
	FallbackValue       = "TBD"
)

// Message is a rendered subject/body pair ready for the mail transport.
type Message struct {
	Subject string
	Body    string
}

// Tokens is the recognized placeholder set, in substitution order. Tokens
// outside this set are left verbatim in the template text.
var Tokens = []string{"{origin}", "{destination}", "{rate}", "{miles}", "{broker_name}"}

// Render substitutes every occurrence of the known placeholder tokens in the
// template's subject and body and appends the account's signature block.
func Render(tpl *models.Template, rec *models.LoadRecord, acct *models.EmailAccount) Message {
	subject := tpl.Subject
	if subject == "" {
		subject = "Load Inquiry"
	}

	replacer := tokenReplacer(rec)
	msg := Message{
		Subject: replacer.Replace(subject),
		Body:    replacer.Replace(tpl.Body),
	}
	msg.Body += Signature(acct)
	return msg
}

// ComposeSubject builds the minimal route-only subject used by the compose
// hand-off.
func ComposeSubject(rec *models.LoadRecord) string {
	return fmt.Sprintf("Load Inquiry: %s to %s", originValue(rec), destinationValue(rec))
}

// Signature returns the signature block for an account: a separator line
// followed by the non-empty fields of company, phone and email, in that
// order. Accounts with neither company nor phone produce no signature.
func Signature(acct *models.EmailAccount) string {
	if acct == nil || (acct.Company == "" && acct.Phone == "") {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("\n\n---")
	for _, line := range []string{acct.Company, acct.Phone, acct.Email} {
		if line != "" {
			sb.WriteString("\n")
			sb.WriteString(line)
		}
	}
	return sb.String()
}

func tokenReplacer(rec *models.LoadRecord) *strings.Replacer {
	return strings.NewReplacer(
		"{origin}", originValue(rec),
		"{destination}", destinationValue(rec),
		"{rate}", rateValue(rec),
		"{miles}", milesValue(rec),
		"{broker_name}", brokerValue(rec),
	)
}

func originValue(rec *models.LoadRecord) string {
	if v := rec.Origin(); v != "" {
		return v
	}
	return FallbackOrigin
}

func destinationValue(rec *models.LoadRecord) string {
	if v := rec.Destination(); v != "" {
		return v
	}
	return FallbackDestination
}

// rateValue never renders "$0"; an unknown rate becomes the fallback literal.
func rateValue(rec *models.LoadRecord) string {
	if rec.Rate > 0 {
		return "$" + formatRate(rec.Rate)
	}
	return FallbackValue
}

func milesValue(rec *models.LoadRecord) string {
	if rec.Miles > 0 {
		return fmt.Sprintf("%d", rec.Miles)
	}
	return FallbackValue
}

func brokerValue(rec *models.LoadRecord) string {
	if rec.BrokerName != "" {
		return rec.BrokerName
	}
	return FallbackBroker
}

// formatRate renders whole-dollar rates without a decimal tail.
func formatRate(rate float64) string {
	if rate == float64(int64(rate)) {
		return fmt.Sprintf("%d", int64(rate))
	}
	return fmt.Sprintf("%.2f", rate)
}
