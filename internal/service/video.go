package service

import (
	"Vega_Tube/internal/model"
	"Vega_Tube/internal/repository"
	"Vega_Tube/pkg/logger"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/streadway/amqp"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	// 遵循：项目名.业务领域.实体/功能
	QueueVideoCleanup = "vega.video_cleanup.queue"
)

// VideoCleanupMessage 通知消费者进程：这个视频已删除，去把它的评论和投票记录清掉
type VideoCleanupMessage struct {
	VideoID uint64 `json:"video_id"`
}

type VideoService interface {
	CreateVideo(authorID uint64, title, description string) (*model.Video, error)
	GetFeed(limit uint64) ([]model.Video, error)
	GetVideoByID(videoID uint64) (*model.Video, error)
	// DeleteVideo 删除自己的视频，评论和投票的级联清理走异步消息
	DeleteVideo(authorID, videoID uint64) error
}

type videoService struct {
	sf singleflight.Group

	videoRepo    repository.VideoRepository
	rabbitMQConn *amqp.Connection
}

func NewVideoService(videoRepo repository.VideoRepository, rabbitMQConn *amqp.Connection) VideoService {
	if rabbitMQConn != nil {
		ch, err := rabbitMQConn.Channel()
		if err != nil {
			// 在实际项目中，这里应该有更健壮的错误处理和重试机制
			panic("Failed to open a channel")
		}
		// NewVideoService执行完毕后，这个临时的Channel就被关闭了
		defer ch.Close()
		// 声明清理队列，有就不用创建（幂等）；durable=true，RabbitMQ重启队列也不丢
		if _, err := ch.QueueDeclare(QueueVideoCleanup, true, false, false, false, nil); err != nil {
			panic("Failed to declare a queue")
		}
	}
	return &videoService{
		videoRepo:    videoRepo,
		rabbitMQConn: rabbitMQConn,
	}
}

func (s *videoService) CreateVideo(authorID uint64, title, description string) (*model.Video, error) {
	newVideo := &model.Video{
		AuthorID:    authorID,
		Title:       title,
		Description: description,
		// 媒体上传/转码是外部服务的事，这里只登记最终的URL
		VideoURL: "https://placeholder.com/video.mp4",
		CoverURL: "https://placeholder.com/cover.jpg",
	}
	err := s.videoRepo.Create(newVideo)
	if err != nil {
		return nil, err
	}
	return newVideo, nil
}

// 获取视频Feed流
func (s *videoService) GetFeed(limit uint64) ([]model.Video, error) {
	// 限制limit长度
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	videos, err := s.videoRepo.FindLatest(limit)
	if err != nil {
		return nil, err
	}
	return videos, nil
}

// 根据videoID查找视频：1、查找Redis缓存 2、通过SingleFlight进行数据库查找
// SingleFlight保证缓存击穿时同一个videoID只有一个goroutine真正打到数据库
func (s *videoService) GetVideoByID(videoID uint64) (*model.Video, error) {
	video, err := s.videoRepo.GetVideoCache(videoID)
	if err == nil && video != nil {
		return video, nil
	}
	// 不是redis中没有，而是Redis本身出错了，应该记录日志并返回
	if err != nil && err != redis.Nil {
		return nil, err
	}
	key := fmt.Sprintf("get_video_%d", videoID)
	result, err, _ := s.sf.Do(key, func() (interface{}, error) {
		dbVideo, dbErr := s.videoRepo.FindByID(videoID)
		if dbErr != nil {
			return nil, dbErr
		}
		// 查询成功后，将返回的dbVideo写回缓存
		_ = s.videoRepo.SetVideoCache(dbVideo)
		return dbVideo, nil
	})
	if err != nil {
		return nil, err
	}
	// 找到了videoID对应的视频，但返回值是interface{}结构，需要断言
	return result.(*model.Video), nil
}

// 删除视频：1、确认视频存在且是自己的 2、删掉视频行和它的缓存 3、发清理消息
// 评论和投票的级联删除量可能很大，不在请求里同步做，丢给消费者进程慢慢清
func (s *videoService) DeleteVideo(authorID, videoID uint64) error {
	video, err := s.videoRepo.FindByID(videoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("视频不存在")
		}
		return err
	}
	if video.AuthorID != authorID {
		return errors.New("只能删除自己的视频")
	}
	if err := s.videoRepo.Delete(videoID); err != nil {
		return err
	}
	// 缓存必须删，不然软删除后的视频还能从缓存里被读出来
	_ = s.videoRepo.DeleteVideoCache(videoID)

	if err := s.publishCleanupMessage(VideoCleanupMessage{VideoID: videoID}); err != nil {
		// 视频行已经删了，消息没发出去，评论会变成孤儿数据
		// 记录严重错误日志以供人工排查，但不向用户报失败（视频确实删掉了）
		logger.Log.WithError(err).
			WithField("video_id", videoID).
			Error("【严重】视频清理消息投递失败！评论和投票记录需要人工清理！")
	}
	return nil
}

// 私有方法，发送消息到RabbitMQ：1、创建channel 2、序列化消息结构体 3、发布消息
func (s *videoService) publishCleanupMessage(msg VideoCleanupMessage) error {
	if s.rabbitMQConn == nil {
		return errors.New("RabbitMQ未连接")
	}
	// 为每一个消息建立一个单独的channel，消息之间互不影响
	ch, err := s.rabbitMQConn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return ch.Publish(
		"",                // exchange默认交换机
		QueueVideoCleanup, // routing key
		false,             // mandatory
		false,             // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent, // 确保消息持久化，清理任务不能丢
		})
}
