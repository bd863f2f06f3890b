// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package transport

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// LineClient sends replies and pushes through the LINE Messaging API and
// resolves member display names. It satisfies the Replier/Pusher interfaces
// of the handlers and scheduler packages and roster.NameResolver.
type LineClient struct {
	api   *messaging_api.MessagingApiAPI
	cache *nameCache
}

func NewLineClient(channelToken string) (*LineClient, error) {
	api, err := messaging_api.NewMessagingApiAPI(channelToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create messaging client: %w", err)
	}
	return &LineClient{api: api, cache: newNameCache()}, nil
}

// Reply answers one webhook event through its reply token.
func (c *LineClient) Reply(ctx context.Context, replyToken, text string) error {
	_, err := c.api.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages: []messaging_api.MessageInterface{
			messaging_api.TextMessage{Text: text},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}
	return nil
}

// Push sends an unsolicited message to a conversation.
func (c *LineClient) Push(ctx context.Context, gid, text string) error {
	_, err := c.api.PushMessage(&messaging_api.PushMessageRequest{
		To: gid,
		Messages: []messaging_api.MessageInterface{
			messaging_api.TextMessage{Text: text},
		},
	}, "")
	if err != nil {
		return fmt.Errorf("failed to send push: %w", err)
	}
	return nil
}

// DisplayName resolves a member's display name within a conversation,
// caching the result. LINE id prefixes pick the lookup: C = group,
// R = room, anything else a direct profile.
func (c *LineClient) DisplayName(ctx context.Context, gid, userID string) (string, error) {
	now := time.Now()
	key := gid + "/" + userID
	if name, ok := c.cache.get(key, now); ok {
		return name, nil
	}

	var name string
	switch {
	case strings.HasPrefix(gid, "C"):
		profile, err := c.api.GetGroupMemberProfile(gid, userID)
		if err != nil {
			return "", fmt.Errorf("failed to get group member profile: %w", err)
		}
		name = profile.DisplayName
	case strings.HasPrefix(gid, "R"):
		profile, err := c.api.GetRoomMemberProfile(gid, userID)
		if err != nil {
			return "", fmt.Errorf("failed to get room member profile: %w", err)
		}
		name = profile.DisplayName
	default:
		profile, err := c.api.GetProfile(userID)
		if err != nil {
			return "", fmt.Errorf("failed to get profile: %w", err)
		}
		name = profile.DisplayName
	}

	c.cache.put(key, name, now)
	return name, nil
}
