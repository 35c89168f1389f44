package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	sse "github.com/r3labs/sse/v2"
	"gopkg.in/cenkalti/backoff.v1"

	"github.com/zielww/apollo/internal/constants"
)

// body of a firebase streaming event
type streamEvent struct {
	Path string          `json:"path"`
	Data json.RawMessage `json:"data"`
}

// Subscribe streams changes to the devices node into eventChannel, the events are
// applied to the cache with HandleEvent. It blocks until the stream is connected or
// ctx is done, the stream is closed when ctx is done.
func (d *Directory) Subscribe(ctx context.Context, eventChannel chan *sse.Event) {
	if !d.Enabled() || !d.watch {
		return
	}

	client := sse.NewClient(d.devicesURL())
	client.ReconnectStrategy = backoff.WithContext(backoff.NewExponentialBackOff(), ctx)
	client.ReconnectNotify = func(err error, next time.Duration) {
		d.logger.Warn("device directory unreachable, retrying", "err", err, "in", next)
	}

	client.OnConnect(func(_ *sse.Client) {
		d.logger.Info("Connected to device directory, listening for registrations...")
	})
	client.OnDisconnect(func(_ *sse.Client) {
		d.logger.Info("Disconnected from device directory")
	})

	if err := client.SubscribeChanWithContext(ctx, "", eventChannel); err != nil && ctx.Err() == nil {
		d.logger.Errorf("error subscribing to device directory: %s", err)
	}
}

// HandleEvent applies a put/patch event to the cache and returns the ids of devices
// that were added or whose address changed
func (d *Directory) HandleEvent(event *sse.Event) ([]string, error) {
	eventType := string(event.Event)
	switch eventType {
	case constants.DirectoryEventPut, constants.DirectoryEventPatch:
	case constants.DirectoryEventKeepAlive, "":
		return nil, nil
	default:
		// cancel / auth_revoked
		return nil, fmt.Errorf("directory stream closed by server: %s %s", eventType, event.Data)
	}

	var evt streamEvent
	if err := json.Unmarshal(event.Data, &evt); err != nil {
		return nil, fmt.Errorf("error parsing directory event: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	before := make(map[string]string, len(d.entries))
	for id, e := range d.entries {
		before[id] = e.toDevice(id).Address
	}

	if err := d.apply(eventType, evt); err != nil {
		return nil, err
	}

	changed := []string{}
	for id, e := range d.entries {
		addr := e.toDevice(id).Address
		if prev, ok := before[id]; (!ok || prev != addr) && addr != "" {
			changed = append(changed, id)
		}
	}
	return changed, nil
}

func (d *Directory) apply(eventType string, evt streamEvent) error {
	path := strings.Split(strings.Trim(evt.Path, "/"), "/")
	isNull := len(bytes.TrimSpace(evt.Data)) == 0 || bytes.Equal(bytes.TrimSpace(evt.Data), []byte("null"))

	switch {
	// the whole devices node
	case path[0] == "":
		if eventType == constants.DirectoryEventPut {
			entries := map[string]deviceEntry{}
			if !isNull {
				if err := json.Unmarshal(evt.Data, &entries); err != nil {
					return fmt.Errorf("error parsing devices in directory event: %w", err)
				}
			}
			d.entries = entries
			return nil
		}
		children := map[string]json.RawMessage{}
		if err := json.Unmarshal(evt.Data, &children); err != nil {
			return fmt.Errorf("error parsing devices in directory event: %w", err)
		}
		for id, raw := range children {
			if err := d.replaceEntry(id, raw); err != nil {
				return err
			}
		}
		return nil

	// a single device
	case len(path) == 1:
		if eventType == constants.DirectoryEventPut {
			return d.replaceEntry(path[0], evt.Data)
		}
		if isNull {
			return nil
		}
		return d.mergeEntry(path[0], evt.Data)

	// a single field of a device
	case len(path) == 2:
		field, err := json.Marshal(map[string]json.RawMessage{path[1]: evt.Data})
		if err != nil {
			return err
		}
		return d.mergeEntry(path[0], field)
	}

	return nil
}

func (d *Directory) replaceEntry(id string, raw json.RawMessage) error {
	var entry *deviceEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return fmt.Errorf("error parsing device (%s) in directory event: %w", id, err)
	}
	if entry == nil {
		delete(d.entries, id)
		return nil
	}
	d.entries[id] = *entry
	return nil
}

func (d *Directory) mergeEntry(id string, raw json.RawMessage) error {
	entry := d.entries[id]
	if err := json.Unmarshal(raw, &entry); err != nil {
		return fmt.Errorf("error parsing device (%s) in directory event: %w", id, err)
	}
	d.entries[id] = entry
	return nil
}
