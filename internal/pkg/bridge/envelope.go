package bridge

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/anicoll/onvif-integration/internal/pkg/model"
)

// DecodeNotify reads a SOAP Notify delivery body and returns its notification
// messages. Topic text is whitespace-trimmed; cameras pad it freely.
func DecodeNotify(r io.Reader) ([]model.NotificationMessage, error) {
	var envelope model.NotifyEnvelope
	if err := xml.NewDecoder(r).Decode(&envelope); err != nil {
		return nil, err
	}
	msgs := envelope.Body.Notify.Messages
	for i := range msgs {
		msgs[i].Topic = strings.TrimSpace(msgs[i].Topic)
	}
	return msgs, nil
}
