package admin

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Le read deadline est repoussé par les pongs ; sans ping serveur, un
// back-office sans commande pendant 90s serait coupé à tort.
const pongWait = 90 * time.Second

// variable pour raccourcir l'intervalle dans les tests
var pingInterval = 30 * time.Second

// OrdersWebSocket diffuse les nouvelles commandes en direct au back-office.
// Le hub pousse les événements NEW_ORDER émis par le checkout ; ici on ne fait
// que tenir la connexion ouverte et détecter la déconnexion du client.
func OrdersWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Erreur upgrade WebSocket: %v", err)
		return
	}

	sub := Hub.Subscribe(conn)
	log.Printf("📡 Back-office connecté au flux commandes (%d abonnés)", Hub.Count())

	defer func() {
		Hub.Unsubscribe(sub)
		conn.Close()
		log.Printf("🔌 Back-office déconnecté du flux commandes (%d abonnés)", Hub.Count())
	}()

	conn.SetReadLimit(512)
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	conn.SetReadDeadline(time.Now().Add(pongWait))

	// ping périodique pour garder la connexion active pendant les périodes
	// creuses ; WriteControl est sûr en parallèle des WriteJSON du hub
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second)); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	// boucle de lecture : on ignore les messages entrants, elle sert
	// uniquement à détecter la fermeture côté client
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
