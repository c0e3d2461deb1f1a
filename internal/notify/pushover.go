package notify

import (
	"fmt"

	"github.com/gregdel/pushover"
	"github.com/sirupsen/logrus"
)

const (
	PriorityNormal = 0
	PriorityHigh   = 1
)

type Notifier struct {
	app       *pushover.Pushover
	recipient *pushover.Recipient
	logger    *logrus.Logger
}

func NewNotifier(token, userKey string, logger *logrus.Logger) *Notifier {
	return &Notifier{
		app:       pushover.New(token),
		recipient: pushover.NewRecipient(userKey),
		logger:    logger,
	}
}

func (n *Notifier) Send(title, message string) error {
	return n.SendWithPriority(title, message, PriorityNormal)
}

func (n *Notifier) SendWithPriority(title, message string, priority int) error {
	msg := pushover.NewMessageWithTitle(message, title)
	msg.Priority = priority

	resp, err := n.app.SendMessage(msg, n.recipient)
	if err != nil {
		return fmt.Errorf("sending pushover notification: %w", err)
	}

	n.logger.WithFields(logrus.Fields{
		"title":      title,
		"status":     resp.Status,
		"request_id": resp.ID,
	}).Debug("notification sent")

	return nil
}

// SendLiveStatus reports a change in a train's running status.
func (n *Notifier) SendLiveStatus(trainNumber, trainName, statusMessage string) error {
	title := fmt.Sprintf("Train %s Status", trainNumber)
	return n.Send(title, StatusBody(trainNumber, trainName, statusMessage))
}

// SendTrainDelay reports a train running late.
func (n *Notifier) SendTrainDelay(trainNumber, trainName string, delayMinutes int, station string) error {
	title := "Train Delay Alert"
	return n.SendWithPriority(title, DelayBody(trainNumber, trainName, delayMinutes, station), PriorityHigh)
}

func StatusBody(trainNumber, trainName, statusMessage string) string {
	return fmt.Sprintf("%s %s\n%s", trainNumber, trainName, statusMessage)
}

func DelayBody(trainNumber, trainName string, delayMinutes int, station string) string {
	body := fmt.Sprintf("Train %s %s is delayed by %d minutes.", trainNumber, trainName, delayMinutes)
	if station != "" {
		body += fmt.Sprintf("\nLast reported at: %s", station)
	}
	return body
}
