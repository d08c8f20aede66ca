package cache

import (
	"testing"

	"github.com/hoyyChoi/yeonseubpun/internal/model"
)

func TestDraftRedisKeyFormat(t *testing.T) {
	s := &draftStore{}
	key := model.DraftKey{Category: "javascript", QuestionID: "js-001"}
	got := s.redisKey("user_ab12cd34", key)
	want := "user:user_ab12cd34:draft:javascript:js-001"
	if got != want {
		t.Errorf("redisKey = %q, want %q", got, want)
	}
}
