// Copyright Open-Xchange GmbH and each contributor to OX App Suite.
// SPDX-License-Identifier: AGPL-3.0-or-later

package email

import (
	"fmt"
	"net/smtp"
	"sort"
	"strings"

	"github.com/open-xchange/appsuite-middleware-sub049/internal/domain/models"
)

const (
	mixedBoundary       = "===============notify-mixed-0001=="
	alternativeBoundary = "===============notify-alt-0001=="
)

// buildMailMessage builds the complete mail with headers and multipart
// content: a multipart/alternative text and HTML body, wrapped together with
// any calendar and file attachments into multipart/mixed.
func buildMailMessage(mail *models.NotificationMail, config SMTPConfig) string {
	var message strings.Builder

	message.WriteString(fmt.Sprintf("From: %s\r\n", senderAddress(mail, config)))
	message.WriteString(fmt.Sprintf("To: %s\r\n", mail.Recipient.Email))
	message.WriteString(fmt.Sprintf("Subject: %s\r\n", mail.Subject))
	message.WriteString(fmt.Sprintf("Message-ID: <%s@%s>\r\n", mail.UID, config.Host))

	// Additional headers are restricted to the X- namespace by the envelope;
	// emit them in stable order.
	extra := mail.AdditionalHeaders()
	names := make([]string, 0, len(extra))
	for name := range extra {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		message.WriteString(fmt.Sprintf("%s: %s\r\n", name, extra[name]))
	}

	message.WriteString("MIME-Version: 1.0\r\n")
	message.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=\"%s\"\r\n", mixedBoundary))
	message.WriteString("\r\n")

	// Body as multipart/alternative
	message.WriteString(fmt.Sprintf("--%s\r\n", mixedBoundary))
	message.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n", alternativeBoundary))
	message.WriteString("\r\n")

	message.WriteString(fmt.Sprintf("--%s\r\n", alternativeBoundary))
	message.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	message.WriteString("\r\n")
	message.WriteString(mail.Text)
	message.WriteString("\r\n")

	message.WriteString(fmt.Sprintf("--%s\r\n", alternativeBoundary))
	message.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	message.WriteString("\r\n")
	message.WriteString(mail.HTML)
	message.WriteString("\r\n")

	message.WriteString(fmt.Sprintf("--%s--\r\n", alternativeBoundary))

	for _, attachment := range mail.Attachments {
		message.WriteString(fmt.Sprintf("--%s\r\n", mixedBoundary))
		message.WriteString(fmt.Sprintf("Content-Type: %s\r\n", attachment.ContentType))
		message.WriteString("Content-Transfer-Encoding: base64\r\n")
		message.WriteString(fmt.Sprintf("Content-Disposition: attachment; filename=\"%s\"\r\n", attachment.Filename))
		message.WriteString("\r\n")
		message.WriteString(wrapBase64(attachment.Content))
		message.WriteString("\r\n")
	}

	message.WriteString(fmt.Sprintf("--%s--\r\n", mixedBoundary))

	return message.String()
}

// senderAddress picks the visible From address: the acting participant when
// known, otherwise the configured service address.
func senderAddress(mail *models.NotificationMail, config SMTPConfig) string {
	sender := mail.Sender
	if sender == nil {
		sender = mail.Actor
	}
	if sender == nil || sender.Email == "" {
		return config.From
	}
	if name := sender.Name(); name != sender.Email {
		return fmt.Sprintf("%s <%s>", name, sender.Email)
	}
	return sender.Email
}

// wrapBase64 folds base64 content at 76 characters per RFC 2045.
func wrapBase64(content string) string {
	const lineLength = 76
	var wrapped strings.Builder
	for len(content) > lineLength {
		wrapped.WriteString(content[:lineLength])
		wrapped.WriteString("\r\n")
		content = content[lineLength:]
	}
	wrapped.WriteString(content)
	return wrapped.String()
}

// sendMailMessage sends a pre-built mail via SMTP.
func sendMailMessage(recipient, message string, config SMTPConfig) error {
	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)

	var auth smtp.Auth
	if config.Username != "" && config.Password != "" {
		auth = smtp.PlainAuth("", config.Username, config.Password, config.Host)
	}

	err := smtp.SendMail(addr, auth, config.From, []string{recipient}, []byte(message))
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
