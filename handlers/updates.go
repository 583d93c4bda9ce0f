package handlers

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"tournament-booking-system/middleware"

	"github.com/gofiber/fiber/v2"
)

const sseKeepAlive = 15 * time.Second

func SetupUpdatesRoutes(r fiber.Router, h *Handler) {
	r.Get("/updates", h.ListUpdates)
	r.Get("/updates/unread", h.HasUnread)
	r.Post("/updates/read", h.MarkUpdatesRead)
}

func (h *Handler) ListUpdates(c *fiber.Ctx) error {
	list, err := h.updates.List(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"updates": list})
}

func (h *Handler) HasUnread(c *fiber.Ctx) error {
	unread, err := h.updates.HasUnread(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"unread": unread})
}

func (h *Handler) MarkUpdatesRead(c *fiber.Ctx) error {
	at, err := h.updates.MarkRead(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"last_updates_read_at": at})
}

// StreamUnread pushes `event: unread` whenever the caller's unread flag changes.
func (h *Handler) StreamUnread(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	serverDone := c.Context().Done()

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no") // nginx

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var mu sync.Mutex
		write := func(frame string) error {
			mu.Lock()
			defer mu.Unlock()
			if _, err := w.WriteString(frame); err != nil {
				return err
			}
			// flush fails once the client is gone
			return w.Flush()
		}

		if err := write(":\n\n"); err != nil {
			return
		}

		go func() {
			ticker := time.NewTicker(sseKeepAlive)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-serverDone:
					cancel()
					return
				case <-ticker.C:
					if err := write(":\n\n"); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		err := h.updates.WatchUnread(ctx, userID, func(unread bool) error {
			return write(fmt.Sprintf("event: unread\ndata: {\"unread\":%t}\n\n", unread))
		})
		log.Printf("[UPDATES_SSE] stream for %s closed: %v", userID, err)
	})

	return nil
}
