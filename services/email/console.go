// Package emailsvc provides the email backends: sendgrid for deployed
// environments and a console writer for DEV/TEST.
package emailsvc

import (
	"fmt"
	"io"
	"os"

	"github.com/univxyz/transkrip/core"
)

type consoleService struct {
	out io.Writer
}

var _ core.EmailService = (*consoleService)(nil)

// NewConsoleService returns an EmailService that prints messages to stdout.
func NewConsoleService() core.EmailService {
	return &consoleService{out: os.Stdout}
}

// NewConsoleServiceMock returns an EmailService that discards output; tests
// use it.
func NewConsoleServiceMock() core.EmailService {
	return &consoleService{out: io.Discard}
}

func (svc *consoleService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		if !msg.HasRecipients() || !msg.HasContent() {
			continue
		}
		fmt.Fprintln(svc.out, "----------------------------------------")
		for _, to := range msg.To {
			fmt.Fprintf(svc.out, "To: %s\n", to.String())
		}
		fmt.Fprintf(svc.out, "Subject: %s\n\n%s\n", msg.Subject, msg.Body)
	}
}
