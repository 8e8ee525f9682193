package service

import (
	"Vega_Tube/internal/model"
	"testing"
	"time"
)

func newVoteFixture() (*fakeCommentRepo, *fakeVoteRepo, VoteService) {
	commentRepo := newFakeCommentRepo()
	voteRepo := newFakeVoteRepo()
	commentRepo.addUser(otherUserID)
	commentRepo.add(1, testVideoID, otherUserID, time.Now(), false)
	uow := &fakeUnitOfWork{commentRepo: commentRepo, voteRepo: voteRepo}
	return commentRepo, voteRepo, NewVoteService(commentRepo, voteRepo, uow)
}

func summaryOf(t *testing.T, voteRepo *fakeVoteRepo, commentID, forUser uint64) (like, dislike votePair) {
	t.Helper()
	votes, err := voteRepo.FindByCommentIDs([]uint64{commentID})
	if err != nil {
		t.Fatalf("FindByCommentIDs failed: %v", err)
	}
	s := summarizeVotes(votes, forUser)
	return votePair{s.Like.Count, s.Like.Status}, votePair{s.Dislike.Count, s.Dislike.Status}
}

type votePair struct {
	count  uint64
	status bool
}

// 同方向重复投票不产生新票：先删后插，净效果是一人一票
func TestCastVote_SamePolarityIdempotent(t *testing.T) {
	_, voteRepo, svc := newVoteFixture()

	for i := 0; i < 3; i++ {
		if err := svc.CastVote(viewerID, 1, model.PolarityLike); err != nil {
			t.Fatalf("CastVote #%d failed: %v", i, err)
		}
	}
	like, dislike := summaryOf(t, voteRepo, 1, viewerID)
	if like.count != 1 || !like.status {
		t.Errorf("like = %+v, want {1 true}", like)
	}
	if dislike.count != 0 || dislike.status {
		t.Errorf("dislike = %+v, want {0 false}", dislike)
	}
}

// 换方向是换票不是加票：赞过再踩，赞-1踩+1
func TestCastVote_SwitchPolarity(t *testing.T) {
	_, voteRepo, svc := newVoteFixture()
	// 别人的票垫底，验证换票只动自己的那张
	voteRepo.add(1, 55, model.PolarityLike)
	voteRepo.add(1, 56, model.PolarityDislike)

	if err := svc.CastVote(viewerID, 1, model.PolarityLike); err != nil {
		t.Fatalf("like failed: %v", err)
	}
	if err := svc.CastVote(viewerID, 1, model.PolarityDislike); err != nil {
		t.Fatalf("dislike failed: %v", err)
	}
	like, dislike := summaryOf(t, voteRepo, 1, viewerID)
	if like.count != 1 || like.status {
		t.Errorf("like = %+v, want {1 false}", like)
	}
	if dislike.count != 2 || !dislike.status {
		t.Errorf("dislike = %+v, want {2 true}", dislike)
	}
}

func TestCastVote_InvalidPolarity(t *testing.T) {
	_, _, svc := newVoteFixture()
	if err := svc.CastVote(viewerID, 1, "love"); err == nil {
		t.Fatal("expected error for invalid polarity")
	}
}

func TestCastVote_CommentNotFound(t *testing.T) {
	_, _, svc := newVoteFixture()
	if err := svc.CastVote(viewerID, 999, model.PolarityLike); err == nil {
		t.Fatal("expected error for missing comment")
	}
}

// 撤票是幂等的：投过撤掉归零，没投过撤也不报错
func TestRemoveVote_Idempotent(t *testing.T) {
	_, voteRepo, svc := newVoteFixture()

	if err := svc.CastVote(viewerID, 1, model.PolarityLike); err != nil {
		t.Fatalf("CastVote failed: %v", err)
	}
	if err := svc.RemoveVote(viewerID, 1); err != nil {
		t.Fatalf("RemoveVote failed: %v", err)
	}
	like, _ := summaryOf(t, voteRepo, 1, viewerID)
	if like.count != 0 || like.status {
		t.Errorf("like after remove = %+v, want {0 false}", like)
	}
	// 再撤一次，什么都没有也应该成功
	if err := svc.RemoveVote(viewerID, 1); err != nil {
		t.Fatalf("second RemoveVote failed: %v", err)
	}
}

func TestSummarizeVotes_Empty(t *testing.T) {
	s := summarizeVotes(nil, viewerID)
	if s.Like.Count != 0 || s.Like.Status || s.Dislike.Count != 0 || s.Dislike.Status {
		t.Errorf("empty summary = %+v, want all zero", s)
	}
}
