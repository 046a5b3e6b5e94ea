package broadcast

import "time"

// Event is one campaign entry of the event table
type Event struct {
	AccountID string    `json:"account_id"`
	Name      string    `json:"name"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Linked    bool      `json:"linked"`
}

// Contains reports whether t falls inside [Start, End]
func (e Event) Contains(t time.Time) bool {
	return !t.Before(e.Start) && !t.After(e.End)
}

// EventColumns are the event table headers the decoder understands
var EventColumns = struct {
	Account, Name, Start, End, Linked Column
}{
	Account: Column{Name: "アカウントID", Aliases: []string{"account_id", "メンバーID"}},
	Name:    Column{Name: "イベント名", Aliases: []string{"event_name", "event"}},
	Start:   Column{Name: "開始日時", Aliases: []string{"start", "started_at"}},
	End:     Column{Name: "終了日時", Aliases: []string{"end", "ended_at"}},
	Linked:  Column{Name: "紐付け", Aliases: []string{"linked"}},
}
