package timeline

import "errors"

var (
	ErrUnknownClipType = errors.New("unknown clip type")
	ErrMediaNotFound   = errors.New("media not found")
	ErrClipRejected    = errors.New("clip rejected by track")
)
