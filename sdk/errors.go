package sdk

import "errors"

var (
	ErrBadPassphrase = errors.New("teacher passphrase does not match")
	ErrNotTeacher    = errors.New("operation requires the teacher role")
	ErrNotStudent    = errors.New("operation requires the student role")
	ErrBuzzerLocked  = errors.New("buzzer is locked for this participant")
	ErrPostingLocked = errors.New("wall is locked for this participant")
	ErrProfanity     = errors.New("message rejected by the profanity screen")
	ErrEmptyMessage  = errors.New("message has neither text nor an image")
	ErrImageTooLarge = errors.New("encoded image exceeds the attachment size limit")
	ErrClosed        = errors.New("channel is closed")
)
