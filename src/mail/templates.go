package mail

import (
	"bytes"
	"fmt"
	"html/template"
)

const (
	CategoryWelcome            = "welcome"
	CategoryComment            = "comment"
	CategoryConnectionAccepted = "connectionAccepted"
)

const layout = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"/><title>{{.Title}}</title></head>
<body style="font-family: Arial, sans-serif; background-color: #f4f6f8; margin: 0; padding: 0;">
  <div style="max-width: 600px; margin: 40px auto; background-color: #ffffff; border-radius: 8px;">
    <div style="background-color: #0077b5; color: white; padding: 20px; text-align: center;">
      <h1>{{.Title}}</h1>
    </div>
    <div style="padding: 30px; color: #333333;">
      {{template "body" .}}
      <a href="{{.URL}}" style="display: inline-block; margin-top: 20px; padding: 12px 24px; background-color: #0077b5; color: white; text-decoration: none; border-radius: 4px;">{{.Action}}</a>
    </div>
    <div style="text-align: center; padding: 20px; font-size: 12px; color: #888888;">TalentNest</div>
  </div>
</body>
</html>`

var (
	welcomeTemplate = template.Must(template.Must(template.New("welcome").Parse(layout)).New("body").Parse(
		`<p>Hi {{.Name}},</p><p>Welcome to TalentNest! Complete your profile so the people you work with can find you.</p>`))

	commentTemplate = template.Must(template.Must(template.New("comment").Parse(layout)).New("body").Parse(
		`<p>Hi {{.Name}},</p><p><strong>{{.ActorName}}</strong> commented on your post:</p><blockquote>{{.Content}}</blockquote>`))

	connectionAcceptedTemplate = template.Must(template.Must(template.New("accepted").Parse(layout)).New("body").Parse(
		`<p>Hi {{.Name}},</p><p><strong>{{.ActorName}}</strong> accepted your connection request. You can now see each other's posts.</p>`))
)

type templateData struct {
	Title     string
	Name      string
	ActorName string
	Content   string
	URL       string
	Action    string
}

func render(t *template.Template, root string, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, root, data); err != nil {
		return "", fmt.Errorf("render %s email: %w", root, err)
	}
	return buf.String(), nil
}

// WelcomeEmail greets a user right after signup
func WelcomeEmail(toEmail, toName, profileURL string) (Message, error) {
	html, err := render(welcomeTemplate, "welcome", templateData{
		Title:  "Welcome to TalentNest",
		Name:   toName,
		URL:    profileURL,
		Action: "View your profile",
	})
	if err != nil {
		return Message{}, err
	}

	return Message{
		ToEmail:  toEmail,
		ToName:   toName,
		Subject:  "Welcome to TalentNest",
		HTML:     html,
		Category: CategoryWelcome,
	}, nil
}

// CommentEmail tells a post author that someone commented on their post
func CommentEmail(toEmail, toName, commenterName, content, postURL string) (Message, error) {
	html, err := render(commentTemplate, "comment", templateData{
		Title:     "New comment on your post",
		Name:      toName,
		ActorName: commenterName,
		Content:   content,
		URL:       postURL,
		Action:    "View comment",
	})
	if err != nil {
		return Message{}, err
	}

	return Message{
		ToEmail:  toEmail,
		ToName:   toName,
		Subject:  commenterName + " commented on your post",
		HTML:     html,
		Category: CategoryComment,
	}, nil
}

// ConnectionAcceptedEmail tells a sender that their request was accepted
func ConnectionAcceptedEmail(toEmail, toName, acceptedByName, profileURL string) (Message, error) {
	html, err := render(connectionAcceptedTemplate, "accepted", templateData{
		Title:     "Connection accepted",
		Name:      toName,
		ActorName: acceptedByName,
		URL:       profileURL,
		Action:    "View profile",
	})
	if err != nil {
		return Message{}, err
	}

	return Message{
		ToEmail:  toEmail,
		ToName:   toName,
		Subject:  acceptedByName + " accepted your connection request",
		HTML:     html,
		Category: CategoryConnectionAccepted,
	}, nil
}
