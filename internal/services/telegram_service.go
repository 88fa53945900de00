package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/example/socialmentor/internal/models"
)

// TelegramService pushes donation notifications to the admin chat.
type TelegramService struct {
	botToken    string
	adminChatID string
}

// NewTelegramService creates a new TelegramService. With an empty token the
// service is a no-op.
func NewTelegramService(botToken, adminChatID string) *TelegramService {
	return &TelegramService{
		botToken:    botToken,
		adminChatID: adminChatID,
	}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendMessage sends a message to the specified chat.
func (s *TelegramService) SendMessage(chatID, text string) error {
	if s.botToken == "" {
		return nil
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.botToken)

	msg := telegramMessage{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("[Telegram] Failed to send message: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[Telegram] Unexpected status: %d", resp.StatusCode)
		return fmt.Errorf("telegram responded with status %d", resp.StatusCode)
	}
	return nil
}

// NotifyDonationCreated pings the admin chat about a new donation.
// Best effort; failures are logged and never block the request.
func (s *TelegramService) NotifyDonationCreated(donation *models.Donation, donor *models.User) {
	if s == nil || s.adminChatID == "" {
		return
	}
	text := fmt.Sprintf(
		"📦 <b>New donation</b>\n%s (%s)\nQuantity: %s\nCity: %s %s\nDonor: %s",
		donation.Title, donation.Category, donation.Quantity,
		donation.City, donation.Pincode, donor.Name,
	)
	go func() {
		if err := s.SendMessage(s.adminChatID, text); err != nil {
			log.Printf("[Telegram] donation created notification failed: %v", err)
		}
	}()
}

// NotifyDonationDelivered pings the admin chat about a completed delivery.
func (s *TelegramService) NotifyDonationDelivered(donation *models.Donation, volunteer *models.User) {
	if s == nil || s.adminChatID == "" {
		return
	}
	text := fmt.Sprintf(
		"✅ <b>Donation delivered</b>\n%s\nVolunteer: %s (+%d points)",
		donation.Title, volunteer.Name, donation.PointsAwarded,
	)
	go func() {
		if err := s.SendMessage(s.adminChatID, text); err != nil {
			log.Printf("[Telegram] donation delivered notification failed: %v", err)
		}
	}()
}
