package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/yotoup/card-studio/internal/model"
)

// Card API paths
const (
	ContentPath     = "/content"
	ContentMinePath = "/content/mine"
)

// CreateOrUpdateCard saves a card to the cloud. A card without a CardID is
// created; a card with a CardID is updated in place. The saved card, including
// the server-assigned ID, is returned.
func (c *Client) CreateOrUpdateCard(ctx context.Context, card *model.Card) (*model.Card, error) {
	if card == nil {
		return nil, fmt.Errorf("card is nil")
	}

	payload, err := json.Marshal(card)
	if err != nil {
		return nil, fmt.Errorf("failed to encode card: %w", err)
	}

	req, err := c.authorizedRequest(ctx, http.MethodPost, ContentPath, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	var saved struct {
		Card *model.Card `json:"card"`
	}
	if err := c.doJSON(req, &saved); err != nil {
		return nil, fmt.Errorf("failed to save card: %w", err)
	}

	if saved.Card == nil {
		return nil, fmt.Errorf("save response contained no card")
	}
	return saved.Card, nil
}

// GetCard fetches a single card by ID
func (c *Client) GetCard(ctx context.Context, cardID string) (*model.Card, error) {
	if cardID == "" {
		return nil, fmt.Errorf("card ID is empty")
	}

	req, err := c.authorizedRequest(ctx, http.MethodGet, ContentPath+"/"+url.PathEscape(cardID), nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		Card *model.Card `json:"card"`
	}
	if err := c.doJSON(req, &result); err != nil {
		return nil, fmt.Errorf("failed to fetch card %s: %w", cardID, err)
	}
	if result.Card == nil {
		return nil, fmt.Errorf("card %s not found in response", cardID)
	}
	return result.Card, nil
}

// ListCards returns the user's library of cards
func (c *Client) ListCards(ctx context.Context) ([]*model.Card, error) {
	req, err := c.authorizedRequest(ctx, http.MethodGet, ContentMinePath, nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		Cards []*model.Card `json:"cards"`
	}
	if err := c.doJSON(req, &result); err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	return result.Cards, nil
}

// DeleteCard removes a card from the user's library
func (c *Client) DeleteCard(ctx context.Context, cardID string) error {
	if cardID == "" {
		return fmt.Errorf("card ID is empty")
	}

	req, err := c.authorizedRequest(ctx, http.MethodDelete, ContentPath+"/"+url.PathEscape(cardID), nil)
	if err != nil {
		return err
	}

	if err := c.doJSON(req, nil); err != nil {
		return fmt.Errorf("failed to delete card %s: %w", cardID, err)
	}
	return nil
}
