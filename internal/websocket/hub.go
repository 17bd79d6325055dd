package websocket

import (
	"encoding/json"
	"sync"
)

// Hub routes optimization progress to subscribed clients. A client
// watches one job at a time; job IDs are unguessable uuids, so knowing
// the ID is the authorization, like a share code.
type Hub struct {
	clients    map[*Client]bool
	jobs       map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	subscribe  chan *subscribeRequest
	stop       chan struct{}
	done       chan struct{} // closed when Run() exits
	stopped    bool
	mu         sync.RWMutex
}

type subscribeRequest struct {
	Client *Client
	JobID  string // empty unsubscribes
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		jobs:       make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		subscribe:  make(chan *subscribeRequest),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	defer close(h.done) // Signal that Run() has exited

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			h.stopped = true
			for client := range h.clients {
				client.Close()
			}
			h.clients = make(map[*Client]bool)
			h.jobs = make(map[string]map[*Client]bool)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if !h.stopped {
				h.clients[client] = true
			}
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if !h.stopped {
				if _, ok := h.clients[client]; ok {
					delete(h.clients, client)
					h.detachLocked(client)
					client.Close()
				}
			}
			h.mu.Unlock()

		case req := <-h.subscribe:
			h.mu.Lock()
			if !h.stopped {
				h.handleSubscribeLocked(req)
			}
			h.mu.Unlock()
		}
	}
}

// Stop gracefully shuts down the hub. It blocks until Run() has exited.
func (h *Hub) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.mu.Unlock()

	close(h.stop)
	<-h.done
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister safely unregisters a client, handling the case where the hub
// may be stopped.
func (h *Hub) Unregister(client *Client) {
	h.mu.RLock()
	stopped := h.stopped
	h.mu.RUnlock()

	if stopped {
		return
	}

	select {
	case h.unregister <- client:
	default:
		// Hub stopped between check and send - that's ok
	}
}

// Subscribe points the client at a job's progress stream. An empty jobID
// drops the current subscription.
func (h *Hub) Subscribe(client *Client, jobID string) {
	h.subscribe <- &subscribeRequest{Client: client, JobID: jobID}
}

// BroadcastJob sends a message to every client watching the job. Slow
// clients are skipped rather than blocking the search goroutine.
func (h *Hub) BroadcastJob(jobID string, msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.stopped {
		return
	}
	for client := range h.jobs[jobID] {
		trySend(client, data)
	}
}

func (h *Hub) handleSubscribeLocked(req *subscribeRequest) {
	h.detachLocked(req.Client)
	req.Client.jobID = req.JobID
	if req.JobID == "" {
		return
	}

	subs, ok := h.jobs[req.JobID]
	if !ok {
		subs = make(map[*Client]bool)
		h.jobs[req.JobID] = subs
	}
	subs[req.Client] = true

	if msg, err := NewMessage(MessageTypeSubscribed, SubscribedPayload{JobID: req.JobID}); err == nil {
		if data, err := json.Marshal(msg); err == nil {
			trySend(req.Client, data)
		}
	}
}

func (h *Hub) detachLocked(client *Client) {
	if client.jobID == "" {
		return
	}
	if subs, ok := h.jobs[client.jobID]; ok {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.jobs, client.jobID)
		}
	}
	client.jobID = ""
}

// trySend attempts to send to a client, safely handling closed channels
func trySend(client *Client, data []byte) {
	defer func() {
		if recover() != nil {
			// Channel closed, client is disconnecting - skip silently
		}
	}()

	select {
	case client.send <- data:
	default:
		// Buffer full, skip
	}
}
