package repository

import (
	"Vega_Tube/internal/model"

	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(comment *model.Comment) error
	FindByID(commentID uint64) (*model.Comment, error)
	// Save 把整条评论写回，用于编辑/置顶/红心这类字段更新
	Save(comment *model.Comment) error
	Delete(commentID uint64) error
	// DeleteByVideoID 在视频被删除后级联清理它的全部评论（消费者进程里调用）
	DeleteByVideoID(videoID uint64) error

	// Feed的三个子集：置顶 / 观看者自己的 / 其他人的
	FindPinned(videoID uint64) ([]model.Comment, error)
	FindOwn(videoID, userID uint64) ([]model.Comment, error)
	FindOthers(videoID, userID uint64) ([]model.Comment, error)

	// FindIDsByVideoID 只取评论ID列表，级联删除投票记录时用
	FindIDsByVideoID(videoID uint64) ([]uint64, error)
	// CountByVideoID 统计视频的全部评论数（不区分置顶/作者），Feed每页都会返回它
	CountByVideoID(videoID uint64) (int64, error)

	WithTx(tx *gorm.DB) CommentRepository
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// WithTx 返回一个新的、使用事务的 commentRepository 实例
func (r *commentRepository) WithTx(tx *gorm.DB) CommentRepository {
	return &commentRepository{
		db: tx,
	}
}

// Create 方法对事务和非事务场景通用
func (r *commentRepository) Create(comment *model.Comment) error {
	return r.db.Create(comment).Error
}

// 利用commentID找comment，并顺便把结构体中的User给Preload进去
func (r *commentRepository) FindByID(commentID uint64) (*model.Comment, error) {
	var result model.Comment
	// 筛选条件直接放在db.First参数中，并把Comment结构体中的User结构体也Preload出来
	err := r.db.Preload("User").First(&result, commentID).Error
	if err != nil {
		return nil, err // 如果有错（包括没找到），直接返回
	}
	return &result, err
}

func (r *commentRepository) Save(comment *model.Comment) error {
	return r.db.Save(comment).Error
}

func (r *commentRepository) Delete(commentID uint64) error {
	return r.db.Delete(&model.Comment{}, commentID).Error
}

func (r *commentRepository) DeleteByVideoID(videoID uint64) error {
	return r.db.Where("video_id = ?", videoID).Delete(&model.Comment{}).Error
}

// 置顶子集：不分页全量取出，置顶评论天然是小集合（频道主手动置顶的那几条）
// 排序固定为创建时间倒序+ID倒序，和当前排序模式无关
func (r *commentRepository) FindPinned(videoID uint64) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.
		Preload("User"). // 预加载评论的作者信息
		Where("video_id = ? AND pinned = ?", videoID, true).
		Order("created_at desc, id desc").
		Find(&comments).Error
	return comments, err
}

// 观看者自己的评论子集：同样不分页，一个人在一个视频下的评论量天然有限
// DB层按时间倒序取出，top模式下的按赞数重排在service层做（赞数是算出来的，不在这张表上）
func (r *commentRepository) FindOwn(videoID, userID uint64) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.
		Preload("User").
		Where("video_id = ? AND pinned = ? AND user_id = ?", videoID, false, userID).
		Order("created_at desc, id desc").
		Find(&comments).Error
	return comments, err
}

// “其他人”子集：排除置顶和观看者自己，这是唯一走游标分页的集合
// 游标过滤和截断也在service层做，原因同上：top模式的排序键like_count是投票表聚合出来的
func (r *commentRepository) FindOthers(videoID, userID uint64) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.
		Preload("User").
		Where("video_id = ? AND pinned = ? AND user_id <> ?", videoID, false, userID).
		Order("created_at desc, id desc").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) FindIDsByVideoID(videoID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.Model(&model.Comment{}).
		Where("video_id = ?", videoID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *commentRepository) CountByVideoID(videoID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Comment{}).
		Where("video_id = ?", videoID).
		Count(&count).Error
	return count, err
}
