package service

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

type QRGenerator interface {
	Generate(orderID int) ([]byte, error)
}

// DefaultQRGenerator encodes a link to the order's tracking page.
type DefaultQRGenerator struct {
	BaseURL string
	Size    int
}

func (g DefaultQRGenerator) Generate(orderID int) ([]byte, error) {
	size := g.Size
	if size <= 0 {
		size = 256
	}
	link := fmt.Sprintf("%s/dashboard/orders/%d", strings.TrimRight(g.BaseURL, "/"), orderID)
	return qrcode.Encode(link, qrcode.Medium, size)
}
