package main

import (
	"context"
	"sync/atomic"

	"github.com/wardenbot/warden/chat"
)

func (s *Server) RunConsumer(ctx context.Context) error {

	cur, err := s.ReadLastCursor(ctx)
	if err != nil {
		return err
	}

	gw := &chat.Gateway{
		Host:   s.gatewayHost,
		Token:  s.botToken,
		Logger: s.logger,
	}

	return gw.Subscribe(ctx, cur, s.eventCallbacks(), func(seq int64) {
		atomic.StoreInt64(&s.lastSeq, seq)
		currentSeq.Set(float64(seq))
	})
}

// eventCallbacks wires gateway events into the engine and command handler.
// Messages authored by the bot's own account are dropped here, before either
// subsystem sees them.
func (s *Server) eventCallbacks() *chat.EventCallbacks {
	return &chat.EventCallbacks{
		MessageCreate: func(ctx context.Context, msg *chat.Message) error {
			if msg.Author.ID == s.engine.SelfID {
				return nil
			}
			eventsProcessedCounter.WithLabelValues("message").Inc()
			if err := s.engine.ProcessMessage(ctx, msg); err != nil {
				s.logger.Error("message policy eval failed", "channel", msg.ChannelID, "author", msg.Author.ID, "err", err)
			}
			// commands are handled even when the message drew a verdict; the
			// owner check inside the handler gates anything that matters
			if err := s.commands.HandleMessage(ctx, msg); err != nil {
				s.logger.Error("command handling failed", "channel", msg.ChannelID, "author", msg.Author.ID, "err", err)
			}
			return nil
		},
		ChannelCreate: func(ctx context.Context, ch *chat.Channel) error {
			eventsProcessedCounter.WithLabelValues("channel").Inc()
			if err := s.engine.ProcessChannelCreate(ctx, ch); err != nil {
				s.logger.Error("channel policy eval failed", "channel", ch.ID, "err", err)
			}
			return nil
		},
		RoleCreate: func(ctx context.Context, role *chat.Role) error {
			eventsProcessedCounter.WithLabelValues("role").Inc()
			if err := s.engine.ProcessRoleCreate(ctx, role); err != nil {
				s.logger.Error("role policy eval failed", "role", role.ID, "err", err)
			}
			return nil
		},
		MemberBan: func(ctx context.Context, ban *chat.BanRecord) error {
			eventsProcessedCounter.WithLabelValues("ban").Inc()
			if err := s.engine.ProcessBan(ctx, ban); err != nil {
				s.logger.Error("ban policy eval failed", "target", ban.User.ID, "err", err)
			}
			return nil
		},
	}
}
