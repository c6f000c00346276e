package services

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/moonrake/cashier-go/config"
	"github.com/moonrake/cashier-go/models"
	"github.com/moonrake/cashier-go/types/responses"
)

type WebhookService interface {
	// NotifyAdminsOfWithdrawal pings the back-office endpoint so a new
	// request shows up in the review queue without polling.
	NotifyAdminsOfWithdrawal(withdrawal *responses.WithdrawalResponseData) (self WebhookService)

	SendWithdrawalApprovedEvent(parent *models.Account, withdrawal *responses.WithdrawalResponseData) (self WebhookService)
	SendWithdrawalCompletedEvent(parent *models.Account, withdrawal *responses.WithdrawalResponseData) (self WebhookService)
	SendWithdrawalFailedEvent(parent *models.Account, withdrawal *responses.WithdrawalResponseData) (self WebhookService)
	SendWithdrawalRejectedEvent(parent *models.Account, withdrawal *responses.WithdrawalResponseData) (self WebhookService)
	SendDepositConfirmedEvent(parent *models.Account, deposit *responses.DepositResponseData) (self WebhookService)
}

type webhookService struct {
	service
}

func NewWebhookService(cfg *config.Config, log *zap.Logger) WebhookService {
	return &webhookService{
		service: service{
			cfg: cfg,
			log: log,
		},
	}
}

func (w *webhookService) doRequest(url string, body *bytes.Buffer, key *string) (error, bool) {
	req, err := http.NewRequest(http.MethodPost, url, body)
	if err != nil {
		return err, false
	}

	if key != nil {
		now := time.Now().Unix()
		data := strings.ReplaceAll(body.String(), "/", "\\/")
		payload := fmt.Sprintf("%d.%s", now, data)
		mac := hmac.New(sha256.New, []byte(*key))
		if _, err := mac.Write([]byte(payload)); err != nil {
			return err, false
		}
		signature := hex.EncodeToString(mac.Sum(nil))
		req.Header.Set("cashier-signature", fmt.Sprintf("ts=%d,sig=%s", now, signature))
	}

	req.Header.Set("content-type", "application/json")
	req.Header.Set("accept", "application/json")

	res, err := http.DefaultClient.Do(req)
	if res != nil {
		resData, _ := io.ReadAll(res.Body)
		res.Body.Close()
		w.log.Info("response from callback", zap.String("Response Data", string(resData)))
	}
	return err, (res != nil && res.StatusCode < 300)
}

func (w *webhookService) send(url string, key *string, eventType models.WebhookEvent, eventData any) {
	w.log.Info("dispatching event...", zap.String("Event Type", eventType.String()))

	event := &models.Webhook{
		Event: eventType,
		Data:  eventData,
	}

	data, err := json.Marshal(event)
	if err != nil {
		w.log.Error("encoding request body", zap.Error(err))
		return
	}

	err, ok := w.doRequest(url, bytes.NewBuffer(data), key)
	if err != nil {
		w.log.Error("dispatching request", zap.Error(err))
		return
	}

	if !ok {
		// todo: schedule event for single retry
		w.log.Warn("callback rejected event", zap.String("Event Type", eventType.String()))
	}
}

func (w *webhookService) sendEvent(parent *models.Account, eventType models.WebhookEvent, eventData any) (self WebhookService) {
	if parent == nil || parent.CallbackURL == nil {
		return w
	}
	w.send(*parent.CallbackURL, parent.WebhookKey, eventType, eventData)
	return w
}

func (w *webhookService) NotifyAdminsOfWithdrawal(withdrawal *responses.WithdrawalResponseData) (self WebhookService) {
	if w.cfg.Webhooks.AdminURL == "" {
		return w
	}
	var key *string
	if w.cfg.Webhooks.AdminKey != "" {
		key = &w.cfg.Webhooks.AdminKey
	}
	w.send(w.cfg.Webhooks.AdminURL, key, models.WithdrawalPending_WebhookEvent, withdrawal)
	return w
}

func (w *webhookService) SendWithdrawalApprovedEvent(parent *models.Account, withdrawal *responses.WithdrawalResponseData) (self WebhookService) {
	return w.sendEvent(parent, models.WithdrawalApproved_WebhookEvent, withdrawal)
}

func (w *webhookService) SendWithdrawalCompletedEvent(parent *models.Account, withdrawal *responses.WithdrawalResponseData) (self WebhookService) {
	return w.sendEvent(parent, models.WithdrawalCompleted_WebhookEvent, withdrawal)
}

func (w *webhookService) SendWithdrawalFailedEvent(parent *models.Account, withdrawal *responses.WithdrawalResponseData) (self WebhookService) {
	return w.sendEvent(parent, models.WithdrawalFailed_WebhookEvent, withdrawal)
}

func (w *webhookService) SendWithdrawalRejectedEvent(parent *models.Account, withdrawal *responses.WithdrawalResponseData) (self WebhookService) {
	return w.sendEvent(parent, models.WithdrawalRejected_WebhookEvent, withdrawal)
}

func (w *webhookService) SendDepositConfirmedEvent(parent *models.Account, deposit *responses.DepositResponseData) (self WebhookService) {
	return w.sendEvent(parent, models.DepositConfirmed_WebhookEvent, deposit)
}
