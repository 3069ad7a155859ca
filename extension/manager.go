package extension

import (
	"context"
	"log/slog"
	"sync"

	"parley/bus"
	"parley/domain/event"
	"parley/errors"
)

// catchAllPriority runs the extension fan-out after core handlers.
const catchAllPriority = 100

// Manager owns the explicit activation registry, indexed by conversation id,
// with lifecycle-bound cleanup. It subscribes itself to every known event
// type at low priority and fans matching events out to interested, activated
// extensions in parallel.
type Manager struct {
	log *slog.Logger
	bus *bus.Bus

	mu         sync.RWMutex
	registered map[string]Extension
	// active maps conversation id -> extension name -> configuration.
	active map[string]map[string]map[string]any
}

func NewManager(log *slog.Logger, b *bus.Bus) *Manager {
	m := &Manager{
		log:        log,
		bus:        b,
		registered: make(map[string]Extension),
		active:     make(map[string]map[string]map[string]any),
	}
	b.SubscribeAll("extension-manager", m.handle, bus.Options{
		Priority: catchAllPriority,
		Async:    true,
	})
	return m
}

// Register makes an extension available for activation. Registering the same
// name twice overwrites, which is what a redeploy wants.
func (m *Manager) Register(ext Extension) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registered[ext.Name()] = ext
}

// Activate turns an extension on for one conversation, running its
// Initialize and Activate hooks with the given configuration.
func (m *Manager) Activate(ctx context.Context, conversationID, name string, config map[string]any) error {
	m.mu.RLock()
	ext, ok := m.registered[name]
	m.mu.RUnlock()
	if !ok {
		return errors.ErrUnknownExtension
	}

	if err := ext.Initialize(ctx, conversationID, config); err != nil {
		return err
	}
	if err := ext.Activate(ctx, conversationID); err != nil {
		return err
	}

	m.mu.Lock()
	if m.active[conversationID] == nil {
		m.active[conversationID] = make(map[string]map[string]any)
	}
	m.active[conversationID][name] = config
	m.mu.Unlock()

	m.emit(ctx, event.NewExtensionActivated(conversationID, name))
	return nil
}

// Deactivate turns an extension off for one conversation.
func (m *Manager) Deactivate(ctx context.Context, conversationID, name string) error {
	m.mu.Lock()
	ext, registered := m.registered[name]
	_, wasActive := m.active[conversationID][name]
	delete(m.active[conversationID], name)
	if len(m.active[conversationID]) == 0 {
		delete(m.active, conversationID)
	}
	m.mu.Unlock()

	if !registered || !wasActive {
		return errors.ErrUnknownExtension
	}
	if err := ext.Deactivate(ctx, conversationID); err != nil {
		m.log.Warn("extension deactivation hook failed",
			"extension", name, "conversation_id", conversationID, "error", err)
	}
	m.emit(ctx, event.NewExtensionDeactivated(conversationID, name))
	return nil
}

// Cleanup drops all activation state of a conversation.
func (m *Manager) Cleanup(conversationID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.active, conversationID)
}

// ActiveExtensions lists extension names active for a conversation.
func (m *Manager) ActiveExtensions(conversationID string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.active[conversationID]))
	for name := range m.active[conversationID] {
		names = append(names, name)
	}
	return names
}

// handle fans one event out to interested, activated extensions in parallel.
// Extensions must not assume strict ordering relative to later events.
func (m *Manager) handle(ctx context.Context, evt event.Event) error {
	m.mu.RLock()
	var interested []Extension
	for name := range m.active[evt.ConversationID] {
		ext, ok := m.registered[name]
		if !ok {
			continue
		}
		for _, t := range ext.EventTypes() {
			if t == evt.Type {
				interested = append(interested, ext)
				break
			}
		}
	}
	m.mu.RUnlock()

	if len(interested) == 0 {
		return nil
	}

	var wg sync.WaitGroup
	for _, ext := range interested {
		wg.Add(1)
		go func(ext Extension) {
			defer wg.Done()
			m.dispatch(ctx, ext, evt)
		}(ext)
	}
	wg.Wait()
	return nil
}

func (m *Manager) dispatch(ctx context.Context, ext Extension, evt event.Event) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("extension panicked",
				"extension", ext.Name(), "type", string(evt.Type), "panic", r)
		}
	}()

	result := ext.HandleEvent(ctx, evt)
	if !result.Success {
		m.log.Warn("extension failed, continuing without it",
			"extension", ext.Name(), "type", string(evt.Type), "error", result.Err)
		return
	}
	for _, extra := range result.AdditionalEvents {
		m.emit(ctx, extra.WithCorrelation(evt.CorrelationID))
	}
}

func (m *Manager) emit(ctx context.Context, evt event.Event) {
	evt.Source = "extension-manager"
	if err := m.bus.Emit(ctx, evt); err != nil {
		m.log.Error("failed to emit extension event", "type", string(evt.Type), "error", err)
	}
}
