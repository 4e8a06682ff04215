package events

import "sync"

// Recorder adalah Publisher untuk test: menyimpan event yang di-emit
// supaya asersi bisa memeriksa urutan dan isinya.
type Recorder struct {
	mu     sync.Mutex
	events []Message
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Emit(event string, data interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Message{Event: event, Data: data})
}

// Events mengembalikan salinan event yang sudah terekam.
func (r *Recorder) Events() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.events))
	copy(out, r.events)
	return out
}

// Names mengembalikan nama event saja, urut emit.
func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.events))
	for _, e := range r.events {
		names = append(names, e.Event)
	}
	return names
}

// Reset mengosongkan rekaman.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
