package utils

import (
	"encoding/base64"
	"fmt"

	"github.com/skip2/go-qrcode"
)

// GenerateOrderQR encode la référence de commande en QR base64 prêt pour <img src="...">.
// Le QR porte l'URL de consultation de la commande, scannée à la remise en main propre.
func GenerateOrderQR(orderID string, baseURL string) (string, error) {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	payload := fmt.Sprintf("%s/api/orders/%s", baseURL, orderID)

	png, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
