package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/melih/fotokutu/internal/models"
)

func TestSummaryBody_Counts(t *testing.T) {
	files := []models.StoredFile{
		{Type: "photo", Name: "Foto_1_1718378445000.jpg", Link: "https://x/1"},
		{Type: "photo", Name: "Foto_2_1718378445000.jpg", Link: "https://x/2"},
		{Type: "audio", Name: "Ses_1718378445000.wav", Link: "https://x/3"},
	}

	body := summaryBody("Dugun_2024-06-14", files)

	assert.Contains(t, body, "Dugun_2024-06-14")
	assert.Contains(t, body, "2 fotoğraf, 1 ses kaydı yüklendi.")
	assert.Contains(t, body, `<a href="https://x/1">Foto_1_1718378445000.jpg</a>`)
	assert.Contains(t, body, "Ses_1718378445000.wav")
}

func TestSummaryBody_Empty(t *testing.T) {
	body := summaryBody("Dugun_2024-06-14", nil)

	assert.Contains(t, body, "0 fotoğraf, 0 ses kaydı yüklendi.")
	assert.NotContains(t, body, "<ul>")
}
