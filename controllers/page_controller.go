// Package controllers - controllers/page_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"

	"go-sched-log/logger"
	"go-sched-log/services"
)

// ApplicationURL is the public URL encoded into the QR code; set once
// from config at startup.
var ApplicationURL string

// SetConfig stores the global application URL.
func SetConfig(appURL string) {
	ApplicationURL = appURL
	logger.Info.Printf("SetConfig: ApplicationURL=%s", appURL)
}

// Health answers load-balancer checks.
func Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// GetQRCode renders the application URL as a PNG so the dashboard can
// be opened on a phone by scanning the screen.
func GetQRCode(c *gin.Context) {
	logger.Info.Println("GetQRCode: Generating QR code")

	qrBytes, err := services.GenerateQRCode(ApplicationURL, 300, qrcode.Encode)
	if err != nil {
		logger.Error.Printf("GetQRCode: Error generating QR code: %v", err)
		c.String(http.StatusInternalServerError, "QR generation failed")
		return
	}

	c.Header("Content-Type", "image/png")
	c.Header("Content-Disposition", "inline; filename=\"qrcode.png\"")
	if _, err := c.Writer.Write(qrBytes); err != nil {
		logger.Error.Printf("GetQRCode: Error writing QR code bytes: %v", err)
	}
}
