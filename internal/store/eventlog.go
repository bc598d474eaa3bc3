package store

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"outline-cli/internal/model"
)

func (s Store) eventsPath() string {
	return filepath.Join(s.Dir, eventsFileName)
}

// AppendEvent appends one mutation event to the append-only JSONL log.
// The log is an audit trail, not the source of truth; failures here are
// reported but must not block the state save the caller already did.
func (s Store) AppendEvent(typ, entityID string, payload any) error {
	typ = strings.TrimSpace(typ)
	entityID = strings.TrimSpace(entityID)
	if typ == "" || entityID == "" {
		return nil
	}
	if err := s.Ensure(); err != nil {
		return err
	}
	id, err := newRandomID("evt")
	if err != nil {
		return err
	}
	ev := model.Event{
		ID:       id,
		TS:       time.Now().UTC(),
		Type:     typ,
		EntityID: entityID,
		Payload:  payload,
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(s.eventsPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(append(b, '\n')); err != nil {
		return err
	}
	return f.Sync()
}

// ReadEvents returns the most recent events, newest last. limit <= 0 means
// all. Corrupted lines are skipped (best effort).
func (s Store) ReadEvents(limit int) ([]model.Event, error) {
	f, err := os.Open(s.eventsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var out []model.Event
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var ev model.Event
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			continue
		}
		out = append(out, ev)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}
