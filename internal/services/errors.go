// Package services holds the in-memory entity stores that sit on top of the
// persistence facade: each store owns one bulk-loaded cache and performs a
// synchronous write-through on every mutation. This file centralizes the
// service-level error values so callers can match them consistently.
//
// Translation into user-facing messages or HTTP statuses belongs to the
// calling layer, not here.
package services

import "errors"

var (
	// ErrUsernameTaken indicates a registration attempt with a username
	// that already exists (comparison is case-sensitive).
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidUsername is returned when a username contains characters
	// outside letters, digits, underscores, and spaces.
	ErrInvalidUsername = errors.New("username may contain only letters, numbers, and spaces")

	// ErrUserNotFound indicates the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrConversationNotFound indicates the referenced conversation does
	// not exist.
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrMessageNotFound indicates the referenced message does not exist
	// or is not a top-level message where one is required.
	ErrMessageNotFound = errors.New("message not found")

	// ErrEmptyContent is returned when a message or reply is posted with
	// no content after trimming.
	ErrEmptyContent = errors.New("message content is empty")

	// ErrContentTooLong is returned when message content exceeds the
	// configured rune limit.
	ErrContentTooLong = errors.New("message content too long")

	// ErrReplyToReply is returned when a reply targets a message that is
	// itself a reply; threads are a single level deep.
	ErrReplyToReply = errors.New("cannot reply to a reply")
)
