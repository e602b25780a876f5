package model

import "encoding/xml"

// NotificationMessage is the wsnt:NotificationMessage shape the cameras POST
// to the Notify endpoint, reduced to the parts the parsers read. Source and
// Data each carry a flat list of name/value pairs; which names are present
// varies per firmware, so everything stays a string until a parser coerces it.
type NotificationMessage struct {
	XMLName xml.Name `xml:"NotificationMessage"`
	Topic   string   `xml:"Topic"`
	Message Message  `xml:"Message>Message"`
}

type Message struct {
	UtcTime string   `xml:"UtcTime,attr"`
	Source  ItemList `xml:"Source"`
	Data    ItemList `xml:"Data"`
}

type ItemList struct {
	SimpleItems []SimpleItem `xml:"SimpleItem"`
}

type SimpleItem struct {
	Name  string `xml:"Name,attr"`
	Value string `xml:"Value,attr"`
}

// Value returns the value of the named item, or "" when absent.
func (l ItemList) Value(name string) string {
	for _, item := range l.SimpleItems {
		if item.Name == name {
			return item.Value
		}
	}
	return ""
}

// First returns the positionally-first item value. The second return is false
// when the list is empty; callers treat that as an unparseable notification.
func (l ItemList) First() (string, bool) {
	if len(l.SimpleItems) == 0 {
		return "", false
	}
	return l.SimpleItems[0].Value, true
}

// NotifyEnvelope is the SOAP envelope wrapping one or more notification
// messages in a wsnt:Notify delivery.
type NotifyEnvelope struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    struct {
		Notify struct {
			Messages []NotificationMessage `xml:"NotificationMessage"`
		} `xml:"Notify"`
	} `xml:"Body"`
}
