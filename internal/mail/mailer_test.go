package mail

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jordan-wright/email"
	"github.com/triplec/contact-api/internal/config"
	"github.com/triplec/contact-api/internal/model"
)

func testDispatcher(t *testing.T) (*Dispatcher, *[]*email.Email) {
	t.Helper()
	d, err := NewDispatcher(&config.Config{
		SMTPHost:   "smtp.example.com",
		SMTPPort:   587,
		FromEmail:  "noreply@example.com",
		OwnerEmail: "owner@example.com",
	})
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}

	var sent []*email.Email
	d.send = func(e *email.Email) error {
		sent = append(sent, e)
		return nil
	}
	return d, &sent
}

func testSubmission() *model.Submission {
	return &model.Submission{
		ID:        42,
		Name:      "Alice",
		Email:     "alice@example.com",
		Message:   "I would like a consultation.",
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		IPAddress: "203.0.113.7",
		Status:    model.StatusNew,
	}
}

func TestDispatch_SendsOwnerAlertAndCustomerConfirmation(t *testing.T) {
	d, sent := testDispatcher(t)

	d.Dispatch(testSubmission())
	d.Close()

	if len(*sent) != 2 {
		t.Fatalf("expected 2 emails, got %d", len(*sent))
	}

	owner := (*sent)[0]
	if owner.To[0] != "owner@example.com" {
		t.Errorf("owner alert sent to %v", owner.To)
	}
	if !strings.Contains(owner.Subject, "#42") {
		t.Errorf("owner subject missing submission id: %q", owner.Subject)
	}
	if !strings.Contains(string(owner.HTML), "I would like a consultation.") {
		t.Error("owner alert HTML missing message body")
	}

	customer := (*sent)[1]
	if customer.To[0] != "alice@example.com" {
		t.Errorf("confirmation sent to %v", customer.To)
	}
	if !strings.Contains(string(customer.HTML), "Alice") {
		t.Error("confirmation HTML missing customer name")
	}
}

func TestDispatch_MissingOrganizationFallsBack(t *testing.T) {
	d, sent := testDispatcher(t)

	sub := testSubmission()
	sub.Organization = ""
	d.Dispatch(sub)
	d.Close()

	owner := (*sent)[0]
	if !strings.Contains(string(owner.Text), "Not provided") {
		t.Error("expected organization fallback in owner alert")
	}
}

func TestDispatch_SendFailureDoesNotPropagate(t *testing.T) {
	d, _ := testDispatcher(t)
	d.send = func(e *email.Email) error {
		return errors.New("smtp unreachable")
	}

	// Must not panic or block; failures are logged only.
	d.Dispatch(testSubmission())
	d.Close()
}

func TestDispatch_ReplyToPointsAtSubmitter(t *testing.T) {
	d, sent := testDispatcher(t)

	d.Dispatch(testSubmission())
	d.Close()

	owner := (*sent)[0]
	if len(owner.ReplyTo) != 1 || !strings.Contains(owner.ReplyTo[0], "alice@example.com") {
		t.Errorf("expected reply-to with submitter address, got %v", owner.ReplyTo)
	}
}
