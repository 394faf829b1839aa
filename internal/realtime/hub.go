package realtime

import (
	"log"
	"sync"
)

// Event est l'enveloppe diffusée aux abonnés temps réel
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

const EventNewOrder = "NEW_ORDER"

// Conn est la surface minimale d'une connexion abonnée (websocket en production)
type Conn interface {
	WriteJSON(v any) error
	Close() error
}

// Hub tient le registre des abonnés temps réel. Il est injecté — jamais un
// singleton de module — et géré explicitement : ajout à la connexion,
// retrait à la déconnexion ou au premier envoi en échec.
// Diffusion best-effort : aucune garantie de livraison ni d'ordre.
type Hub struct {
	mu          sync.Mutex
	subscribers map[*Subscriber]struct{}
}

// Subscriber enveloppe une connexion abonnée. gorilla/websocket n'autorise
// qu'un seul écrivain à la fois sur une connexion : mu sérialise les envois
// quand plusieurs checkouts diffusent en parallèle.
type Subscriber struct {
	mu   sync.Mutex
	conn Conn
}

func (s *Subscriber) send(event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(event)
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[*Subscriber]struct{})}
}

// Subscribe enregistre une connexion ouverte et retourne son handle
func (h *Hub) Subscribe(conn Conn) *Subscriber {
	sub := &Subscriber{conn: conn}
	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	count := len(h.subscribers)
	h.mu.Unlock()

	log.Printf("📡 Abonné temps réel connecté (%d actifs)", count)
	return sub
}

// Unsubscribe retire un abonné ; idempotent
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	delete(h.subscribers, sub)
	h.mu.Unlock()
}

// Broadcast envoie l'événement à chaque abonné ouvert.
// Un abonné dont l'écriture échoue est retiré paresseusement et fermé.
func (h *Hub) Broadcast(event Event) {
	h.mu.Lock()
	subs := make([]*Subscriber, 0, len(h.subscribers))
	for sub := range h.subscribers {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		if err := sub.send(event); err != nil {
			h.Unsubscribe(sub)
			_ = sub.conn.Close()
			log.Printf("🔌 Abonné temps réel retiré (écriture impossible): %v", err)
		}
	}
}

// Count retourne le nombre d'abonnés actifs
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}
