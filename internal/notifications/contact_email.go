package notifications

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"

	"portfolio-backend/internal/contacts"
)

const receivedLayout = "2006-01-02 15:04 MST"

const contactNotificationTemplate = `<!DOCTYPE html>
<html>
<body>
  <h3>New message from your portfolio</h3>
  <p><strong>Name:</strong> {{.Name}}</p>
  <p><strong>Email:</strong> {{.Email}}</p>
  <p><strong>Subject:</strong> {{.Subject}}</p>
  <p><strong>Received:</strong> {{.CreatedAt.Format "` + receivedLayout + `"}}</p>
  <p><strong>ID:</strong> {{.ID}}</p>
  <p><strong>Message:</strong><br/>{{.Message}}</p>
</body>
</html>`

var contactNotificationTmpl = htmltemplate.Must(htmltemplate.New("contact_notification").Parse(contactNotificationTemplate))

func buildContactNotificationHTML(contact contacts.Contact) (string, error) {
	var buf bytes.Buffer
	if err := contactNotificationTmpl.Execute(&buf, contact); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func buildContactNotificationText(contact contacts.Contact) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New message from %s <%s>\n", contact.Name, contact.Email)
	fmt.Fprintf(&b, "Subject: %s\n", contact.Subject)
	fmt.Fprintf(&b, "Received: %s\n\n", contact.CreatedAt.Format(receivedLayout))
	b.WriteString(contact.Message)
	return b.String()
}
