package email

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

type Client struct {
	senderAddress string
	siteName      string
	client        http.Client
	apiKey        string
	baseURL       string
}

type Attachment struct {
	Name    string `json:"name"`
	B64Data string `json:"content"`
}

type Address struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type Message struct {
	Sender      Address     `json:"sender"`
	To          []Address   `json:"to"`
	Subject     string      `json:"subject"`
	TextContent string      `json:"textContent,omitempty"`
	HtmlContent string      `json:"htmlContent,omitempty"`
	Attachment  *Attachment `json:"attachment,omitempty"`
}

func NewClient(apiKey, senderAddress, siteName string) (Client, error) {
	return Client{
		client:        *http.DefaultClient,
		apiKey:        apiKey,
		senderAddress: senderAddress,
		siteName:      siteName,
		baseURL:       "https://api.sendinblue.com",
	}, nil
}

// SendReminderText delivers a plain reminder notification.
func (e Client) SendReminderText(to, subject, text string) error {
	return e.send(Message{
		Sender:      Address{Name: e.siteName, Email: e.senderAddress},
		To:          []Address{{Email: to}},
		Subject:     subject,
		TextContent: text,
	})
}

// SendJobAlert delivers the job listing digest with the PDF export attached.
func (e Client) SendJobAlert(to, subject, text string, pdf []byte, fileName string) error {
	msg := Message{
		Sender:      Address{Name: e.siteName, Email: e.senderAddress},
		To:          []Address{{Email: to}},
		Subject:     subject,
		TextContent: text,
	}
	if len(pdf) > 0 {
		msg.Attachment = &Attachment{
			Name:    fileName,
			B64Data: base64.StdEncoding.EncodeToString(pdf),
		}
	}
	return e.send(msg)
}

func (e Client) send(msg Message) error {
	reqData, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "unable to marshal email message")
	}
	req, err := http.NewRequest(http.MethodPost, e.baseURL+"/v3/smtp/email", bytes.NewReader(reqData))
	if err != nil {
		return err
	}
	req.Header.Add("api-key", e.apiKey)
	req.Header.Add("content-type", "application/json")
	res, err := e.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "unable to call email api")
	}
	defer res.Body.Close()
	if res.StatusCode >= http.StatusBadRequest {
		errBody, err := io.ReadAll(res.Body)
		if err != nil {
			errBody = []byte(`unable to read body`)
		}
		return fmt.Errorf("got status code %d when sending email: err %s", res.StatusCode, string(errBody))
	}
	return nil
}
