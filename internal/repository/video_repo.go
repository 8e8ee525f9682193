package repository

import (
	"Vega_Tube/internal/model"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type VideoRepository interface {
	Create(video *model.Video) error
	FindLatest(limit uint64) ([]model.Video, error)
	FindByID(videoID uint64) (*model.Video, error)
	Delete(videoID uint64) error

	GetVideoCache(videoID uint64) (*model.Video, error)
	SetVideoCache(video *model.Video) error
	DeleteVideoCache(videoID uint64) error

	WithTx(tx *gorm.DB) VideoRepository
}

type videoRepository struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewVideoRepository(db *gorm.DB, rdb *redis.Client) VideoRepository {
	return &videoRepository{
		db:  db,
		rdb: rdb,
	}
}

// WithTx 返回一个新的、使用事务的 videoRepository 实例（事务里不碰Redis）
func (r *videoRepository) WithTx(tx *gorm.DB) VideoRepository {
	return &videoRepository{
		db: tx,
	}
}

func (r *videoRepository) Create(video *model.Video) error {
	return r.db.Create(video).Error
}

// 按时间倒序查询最新的视频列表
func (r *videoRepository) FindLatest(limit uint64) ([]model.Video, error) {
	var videos []model.Video
	// Preload("Author")在查询视频的同时，预加载关联的作者信息,时间倒序,限制数量
	err := r.db.Preload("Author").Order("created_at desc").Limit(int(limit)).Find(&videos).Error
	if err != nil {
		return nil, err
	}
	return videos, nil
}

// 利用videoID找视频，preload其中的Author结构
func (r *videoRepository) FindByID(videoID uint64) (*model.Video, error) {
	// 1. 先从缓存读
	video, err := r.GetVideoCache(videoID)
	if err == nil && video != nil {
		// 缓存命中，直接返回
		return video, nil
	}

	// 2. 缓存未命中，从数据库读
	var dbVideo model.Video
	err = r.db.Preload("Author").First(&dbVideo, videoID).Error
	if err != nil {
		return nil, err // 数据库也没找到，就真的没有了
	}

	// 3. 读到数据后，写回缓存，方便下次读取
	_ = r.SetVideoCache(&dbVideo)

	return &dbVideo, nil
}

func (r *videoRepository) Delete(videoID uint64) error {
	return r.db.Delete(&model.Video{}, videoID).Error
}

// 返回存储单个视频信息的字符串Key
func (r *videoRepository) keyVideoInfo(videoID uint64) string {
	return fmt.Sprintf("video:info:%d", videoID)
}

// 从Redis缓存中获取单个Video信息：1、利用VideoID组装key 2、拿key去rdb中寻找videoJSON 3、利用json.Unmarshal将拿到的videoJSON反序列化
func (r *videoRepository) GetVideoCache(videoID uint64) (*model.Video, error) {
	if r.rdb == nil {
		return nil, nil // 没配置Redis（比如事务副本），当作缓存未命中
	}
	key := r.keyVideoInfo(videoID)
	// 使用GET命令获取存储在rdb里的JSON字符串
	videoJSON, err := r.rdb.Get(context.Background(), key).Result()
	if err == redis.Nil {
		return nil, nil // 缓存不存在，但是Redis正常工作
	} else if err != nil {
		return nil, err // Redis本身出错了
	}
	// 将获取到的JSON字符串，反序列化回model.Video结构体
	var video model.Video
	if err := json.Unmarshal([]byte(videoJSON), &video); err != nil {
		return nil, err // JSON反序列化失败
	}
	return &video, nil
}

// 将单个视频信息存入Redis缓存：序列化成JSON，过期时间加随机抖动防止缓存雪崩
func (r *videoRepository) SetVideoCache(video *model.Video) error {
	if r.rdb == nil {
		return nil
	}
	key := r.keyVideoInfo(video.ID)
	videoJSON, err := json.Marshal(video)
	if err != nil {
		return err // JSON序列化失败
	}
	expiration := time.Minute*5 + time.Duration(rand.Intn(60))*time.Second
	return r.rdb.Set(context.Background(), key, videoJSON, expiration).Err()
}

// 删除视频时同步删掉缓存，不然软删除后的视频还能从缓存里被读出来
func (r *videoRepository) DeleteVideoCache(videoID uint64) error {
	if r.rdb == nil {
		return nil
	}
	return r.rdb.Del(context.Background(), r.keyVideoInfo(videoID)).Err()
}
