package model

import (
	"time"

	"github.com/kpramod0/SkillLinkr-sub000/internal/domain/enums"
)

type Swipe struct {
	SwiperID  string            `json:"swiper_id"`
	TargetID  string            `json:"target_id"`
	Action    enums.SwipeAction `json:"action"`
	Message   string            `json:"message,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}
