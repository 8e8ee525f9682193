package service

import (
	"Vega_Tube/internal/model"
	"Vega_Tube/internal/repository"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"
)

type fakeVideoRepo struct {
	videos map[uint64]model.Video
}

func newFakeVideoRepo() *fakeVideoRepo {
	return &fakeVideoRepo{videos: make(map[uint64]model.Video)}
}

func (r *fakeVideoRepo) Create(video *model.Video) error {
	r.videos[video.ID] = *video
	return nil
}

func (r *fakeVideoRepo) FindLatest(limit uint64) ([]model.Video, error) {
	var result []model.Video
	for _, v := range r.videos {
		result = append(result, v)
		if uint64(len(result)) >= limit {
			break
		}
	}
	return result, nil
}

func (r *fakeVideoRepo) FindByID(videoID uint64) (*model.Video, error) {
	v, ok := r.videos[videoID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &v, nil
}

func (r *fakeVideoRepo) Delete(videoID uint64) error {
	delete(r.videos, videoID)
	return nil
}

func (r *fakeVideoRepo) GetVideoCache(videoID uint64) (*model.Video, error) { return nil, nil }
func (r *fakeVideoRepo) SetVideoCache(video *model.Video) error             { return nil }
func (r *fakeVideoRepo) DeleteVideoCache(videoID uint64) error              { return nil }
func (r *fakeVideoRepo) WithTx(tx *gorm.DB) repository.VideoRepository     { return r }

func newCommentFixture() (*fakeCommentRepo, *fakeVoteRepo, CommentService) {
	commentRepo := newFakeCommentRepo()
	voteRepo := newFakeVoteRepo()
	videoRepo := newFakeVideoRepo()
	commentRepo.addUser(viewerID)
	commentRepo.addUser(channelID)
	commentRepo.addUser(otherUserID)
	videoRepo.videos[testVideoID] = model.Video{
		BaseModel: model.BaseModel{ID: testVideoID},
		AuthorID:  channelID,
		Title:     "test video",
	}
	uow := &fakeUnitOfWork{commentRepo: commentRepo, voteRepo: voteRepo}
	return commentRepo, voteRepo, NewCommentService(commentRepo, voteRepo, videoRepo, uow, nil)
}

func TestCreateComment(t *testing.T) {
	_, _, svc := newCommentFixture()

	comment, err := svc.CreateComment(viewerID, testVideoID, "第一条评论")
	if err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}
	if comment.ID == 0 {
		t.Error("created comment has no ID")
	}
	if comment.User.ID != viewerID {
		t.Errorf("author not preloaded: got user %d", comment.User.ID)
	}
	if comment.Edited || comment.Pinned || comment.Hearted {
		t.Error("new comment should have all flags off")
	}
}

func TestCreateComment_EmptyContent(t *testing.T) {
	_, _, svc := newCommentFixture()
	// 全是空白也算空
	if _, err := svc.CreateComment(viewerID, testVideoID, "   \t  "); !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("err = %v, want ErrEmptyContent", err)
	}
}

func TestCreateComment_VideoNotFound(t *testing.T) {
	_, _, svc := newCommentFixture()
	if _, err := svc.CreateComment(viewerID, 999, "hello"); !errors.Is(err, ErrVideoNotFound) {
		t.Fatalf("err = %v, want ErrVideoNotFound", err)
	}
}

func TestEditComment(t *testing.T) {
	commentRepo, _, svc := newCommentFixture()
	commentRepo.add(1, testVideoID, viewerID, time.Now(), false)

	edited, err := svc.EditComment(viewerID, 1, "改过了")
	if err != nil {
		t.Fatalf("EditComment failed: %v", err)
	}
	if edited.Content != "改过了" {
		t.Errorf("content = %q", edited.Content)
	}
	if !edited.Edited {
		t.Error("edited flag not set")
	}
}

func TestEditComment_NotOwner(t *testing.T) {
	commentRepo, _, svc := newCommentFixture()
	commentRepo.add(1, testVideoID, otherUserID, time.Now(), false)
	// 别人的评论，连频道主也不能编辑
	if _, err := svc.EditComment(channelID, 1, "篡改"); !errors.Is(err, ErrNotCommentOwner) {
		t.Fatalf("err = %v, want ErrNotCommentOwner", err)
	}
}

// 删除评论要连投票一起删，作者本人和频道主都可以删
func TestDeleteComment_CascadesVotes(t *testing.T) {
	commentRepo, voteRepo, svc := newCommentFixture()
	commentRepo.add(1, testVideoID, viewerID, time.Now(), false)
	voteRepo.add(1, otherUserID, model.PolarityLike)
	voteRepo.add(1, channelID, model.PolarityDislike)

	if err := svc.DeleteComment(viewerID, 1); err != nil {
		t.Fatalf("DeleteComment failed: %v", err)
	}
	if _, err := commentRepo.FindByID(1); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Error("comment still exists after delete")
	}
	votes, _ := voteRepo.FindByCommentIDs([]uint64{1})
	if len(votes) != 0 {
		t.Errorf("%d orphaned votes left behind", len(votes))
	}
}

func TestDeleteComment_ChannelOwnerModeration(t *testing.T) {
	commentRepo, _, svc := newCommentFixture()
	commentRepo.add(1, testVideoID, otherUserID, time.Now(), false)

	// 频道主可以删别人的评论
	if err := svc.DeleteComment(channelID, 1); err != nil {
		t.Fatalf("channel owner delete failed: %v", err)
	}
	// 无关路人不行
	commentRepo.add(2, testVideoID, otherUserID, time.Now(), false)
	if err := svc.DeleteComment(viewerID, 2); !errors.Is(err, ErrNotCommentOwner) {
		t.Fatalf("err = %v, want ErrNotCommentOwner", err)
	}
}

func TestSetPinned_ChannelOwnerOnly(t *testing.T) {
	commentRepo, _, svc := newCommentFixture()
	commentRepo.add(1, testVideoID, otherUserID, time.Now(), false)

	if err := svc.SetPinned(viewerID, 1, true); !errors.Is(err, ErrNotChannelOwner) {
		t.Fatalf("err = %v, want ErrNotChannelOwner", err)
	}
	if err := svc.SetPinned(channelID, 1, true); err != nil {
		t.Fatalf("SetPinned failed: %v", err)
	}
	comment, _ := commentRepo.FindByID(1)
	if !comment.Pinned {
		t.Error("pinned flag not set")
	}
	// 取消置顶
	if err := svc.SetPinned(channelID, 1, false); err != nil {
		t.Fatalf("unpin failed: %v", err)
	}
	comment, _ = commentRepo.FindByID(1)
	if comment.Pinned {
		t.Error("pinned flag not cleared")
	}
}

func TestSetHearted(t *testing.T) {
	commentRepo, _, svc := newCommentFixture()
	commentRepo.add(1, testVideoID, otherUserID, time.Now(), false)

	if err := svc.SetHearted(channelID, 1, true); err != nil {
		t.Fatalf("SetHearted failed: %v", err)
	}
	comment, _ := commentRepo.FindByID(1)
	if !comment.Hearted {
		t.Error("hearted flag not set")
	}
	if err := svc.SetHearted(viewerID, 1, true); !errors.Is(err, ErrNotChannelOwner) {
		t.Fatalf("err = %v, want ErrNotChannelOwner", err)
	}
}
