package utils

import (
	"encoding/base64"
	"fmt"

	"civic-report-service/apperrors"
	"civic-report-service/models"
)

// EncodeImageToBase64 turns raw upload bytes into their base64 text form.
// The encoded text is what gets persisted; the original bytes are never
// stored or fetched again.
func EncodeImageToBase64(file []byte) (string, error) {
	if len(file) == 0 {
		return "", apperrors.Validation("Image file is required")
	}
	return base64.StdEncoding.EncodeToString(file), nil
}

// ImageDataURL builds a self-contained data URL from encoded image data.
// The same URL feeds both the classifier and the UI, so no image is ever
// served over the network.
func ImageDataURL(base64Data, mimeType string) string {
	if mimeType == "" {
		mimeType = models.DefaultMimeType
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64Data)
}
