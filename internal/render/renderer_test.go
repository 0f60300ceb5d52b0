package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/freightwiz/loadscout/pkg/models"
)

func fullRecord() *models.LoadRecord {
	return &models.LoadRecord{
		LoadID:           "load-1",
		OriginCity:       "Dallas",
		OriginState:      "TX",
		DestinationCity:  "Atlanta",
		DestinationState: "GA",
		Miles:            780,
		Rate:             2500,
		BrokerName:       "Acme Logistics",
		BrokerEmail:      "ops@acme.example",
	}
}

func TestRender_SubstitutesAllTokens(t *testing.T) {
	tpl := &models.Template{
		Subject: "Inquiry: {origin} to {destination}",
		Body:    "Rate {rate} for {miles} miles. Hello {broker_name}.",
	}

	msg := Render(tpl, fullRecord(), nil)

	assert.Equal(t, "Inquiry: Dallas, TX to Atlanta, GA", msg.Subject)
	assert.Equal(t, "Rate $2500 for 780 miles. Hello Acme Logistics.", msg.Body)
}

func TestRender_MissingFieldsFallBack(t *testing.T) {
	tpl := &models.Template{
		Subject: "{origin} to {destination}",
		Body:    "{rate} / {miles} / {broker_name}",
	}

	msg := Render(tpl, &models.LoadRecord{}, nil)

	assert.Equal(t, "Origin to Destination", msg.Subject)
	assert.Equal(t, "TBD / TBD / Broker", msg.Body)
}

func TestRender_ZeroRateNeverRendersDollarZero(t *testing.T) {
	tpl := &models.Template{Body: "rate: {rate}"}
	rec := fullRecord()
	rec.Rate = 0

	msg := Render(tpl, rec, nil)
	assert.Equal(t, "rate: TBD", msg.Body)
	assert.NotContains(t, msg.Body, "$0")
}

func TestRender_FractionalRateKeepsCents(t *testing.T) {
	tpl := &models.Template{Body: "{rate}"}
	rec := fullRecord()
	rec.Rate = 1850.5

	msg := Render(tpl, rec, nil)
	assert.Equal(t, "$1850.50", msg.Body)
}

func TestRender_UnknownTokensLeftVerbatim(t *testing.T) {
	tpl := &models.Template{Body: "{origin} {mystery_token} {destination}"}

	msg := Render(tpl, fullRecord(), nil)
	assert.Contains(t, msg.Body, "{mystery_token}")
	for _, token := range Tokens {
		assert.NotContains(t, msg.Body, token)
	}
}

func TestRender_EmptySubjectDefaults(t *testing.T) {
	tpl := &models.Template{Body: "hi"}
	msg := Render(tpl, fullRecord(), nil)
	assert.Equal(t, "Load Inquiry", msg.Subject)
}

func TestRender_RepeatedTokens(t *testing.T) {
	tpl := &models.Template{Body: "{origin} and again {origin}"}
	msg := Render(tpl, fullRecord(), nil)
	assert.Equal(t, "Dallas, TX and again Dallas, TX", msg.Body)
}

func TestRender_AppendsSignature(t *testing.T) {
	tpl := &models.Template{Body: "body text"}
	acct := &models.EmailAccount{
		Email:   "dispatch@example.com",
		Company: "Fast Freight LLC",
		Phone:   "555-000-1111",
	}

	msg := Render(tpl, fullRecord(), acct)
	assert.Equal(t, "body text\n\n---\nFast Freight LLC\n555-000-1111\ndispatch@example.com", msg.Body)
}

func TestSignature(t *testing.T) {
	tests := []struct {
		name string
		acct *models.EmailAccount
		want string
	}{
		{"nil account", nil, ""},
		{"email only", &models.EmailAccount{Email: "a@b.c"}, ""},
		{"company only", &models.EmailAccount{Company: "Co"}, "\n\n---\nCo"},
		{"phone only", &models.EmailAccount{Phone: "555"}, "\n\n---\n555"},
		{
			"all fields",
			&models.EmailAccount{Email: "a@b.c", Company: "Co", Phone: "555"},
			"\n\n---\nCo\n555\na@b.c",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Signature(tt.acct))
		})
	}
}

func TestComposeSubject(t *testing.T) {
	assert.Equal(t, "Load Inquiry: Dallas, TX to Atlanta, GA", ComposeSubject(fullRecord()))
	assert.Equal(t, "Load Inquiry: Origin to Destination", ComposeSubject(&models.LoadRecord{}))
}

func TestRender_StateOnlyRoute(t *testing.T) {
	rec := &models.LoadRecord{OriginState: "TX", DestinationState: "GA"}
	tpl := &models.Template{Subject: "{origin} to {destination}"}

	msg := Render(tpl, rec, nil)
	assert.Equal(t, "TX to GA", msg.Subject)
	assert.False(t, strings.Contains(msg.Subject, ","))
}
