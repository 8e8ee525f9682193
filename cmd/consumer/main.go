package main

import (
	"Vega_Tube/internal/repository"
	"Vega_Tube/pkg/logger"
	"Vega_Tube/pkg/rabbitmq"
	"encoding/json"
	"errors"
	"os"

	"github.com/go-sql-driver/mysql"
	"github.com/streadway/amqp"
	gorm_mysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

const (
	QueueVideoCleanup = "vega.video_cleanup.queue"
)

// 视频清理消息，只需要一个videoID
type VideoCleanupMessage struct {
	VideoID uint64 `json:"video_id"`
}

// 消费者进程：连接mysql和rabbitMQ，把已删除视频的评论和投票记录级联清理掉
// 清理量可能很大，所以不在API请求里同步做，丢到这里慢慢消化
func main() {
	logger.InitLogger()

	// 连接数据库
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(127.0.0.1:3306)/vega_tube?charset=utf8mb4&parseTime=True&loc=Local"
	}
	db, err := gorm.Open(gorm_mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Log.Fatalf("消费者无法连接到数据库: %v", err)
	}
	// 连接RabbitMQ
	rabbitMQConn, err := rabbitmq.InitRabbitMQ()
	if err != nil {
		logger.Log.Fatalf("消费者无法连接到RabbitMQ: %v", err)
	}
	defer rabbitMQConn.Close()

	consumeVideoCleanup(rabbitMQConn, db)
}

// 清理消息消费者：1、通过mq的TCP连接创建channel 2、注册消费者 3、利用无缓冲通道持续消费
// 4、每条消息在一个事务里删掉该视频全部评论的投票记录和评论本身，并对mq中的消息进行安全管理
func consumeVideoCleanup(conn *amqp.Connection, db *gorm.DB) {
	ch, err := conn.Channel()
	if err != nil {
		logger.Log.Fatalf("无法打开Channel: %v", err)
	}
	defer ch.Close()

	// 队列声明是幂等的，消费者先启动也不会出错
	if _, err := ch.QueueDeclare(QueueVideoCleanup, true, false, false, false, nil); err != nil {
		logger.Log.Fatalf("无法声明清理队列: %v", err)
	}

	msgs, err := ch.Consume(
		QueueVideoCleanup, // queue
		"",                // consumer
		false,             // auto-ack: 手动确认，处理成功才Ack
		false,             // exclusive
		false,             // no-local
		false,             // no-wait
		nil,               // args
	)
	if err != nil {
		logger.Log.Fatalf("无法注册清理消费者: %v", err)
	}
	// 创建一个没有任何缓冲的bool类型通道
	forever := make(chan bool)

	go func() {
		// msgs不是切片，而是通道channel，如果通道为空不会结束循环，而会“阻塞”
		for d := range msgs {
			logCtx := logger.Log.WithField("body", string(d.Body)).WithField("redelivered", d.Redelivered)
			logCtx.Info("收到一条视频清理消息")

			var msg VideoCleanupMessage
			if err := json.Unmarshal(d.Body, &msg); err != nil {
				logCtx.WithError(err).Error("消息JSON解析失败")
				// 无法解析的“坏消息”，通知mq处理失败并直接丢弃
				d.Nack(false, false)
				continue // 处理下一条
			}
			// db.Transaction事务操作，由原始的、全局的数据库连接池(db)来发起，tx是一次性的
			// 返回error则ROLLBACK，返回nil则COMMIT
			err := db.Transaction(func(tx *gorm.DB) error {
				// 事务中使用临时的、绑定到这个事务(tx)的repository实例
				txCommentRepo := repository.NewCommentRepository(tx)
				txVoteRepo := repository.NewVoteRepository(tx)

				// 先删投票记录再删评论，顺序反了会拿不到评论ID列表
				commentIDs, err := txCommentRepo.FindIDsByVideoID(msg.VideoID)
				if err != nil {
					return err
				}
				if err := txVoteRepo.DeleteByCommentIDs(commentIDs); err != nil {
					return err
				}
				return txCommentRepo.DeleteByVideoID(msg.VideoID)
			})
			// 根据数据库操作的结果，来决定如何“确认”消息
			if err != nil {
				var mysqlErr *mysql.MySQLError
				// 用errors.As来检查错误的“根”是不是一个MySQLError
				if errors.As(err, &mysqlErr) && mysqlErr.Number == 1213 {
					// 错误号 1213 是死锁，批量删除撞上业务写入时可能出现，重试即可
					logCtx.WithError(err).Warn("清理事务发生死锁，消息将重新入队重试")
					d.Nack(false, true)
				} else {
					// 删除本身是幂等的，其他错误也值得再试一次
					logCtx.WithError(err).Error("清理消息处理失败，将进行重试")
					d.Nack(false, true)
				}
			} else {
				// 通知mq处理成功，将消息删除
				d.Ack(false)
			}
		}
	}()
	logger.Log.Info(" [*] 等待视频清理消息中. 按 CTRL+C 退出")
	// 尝试从forever通道里接收一个值，但没有发送者，这会阻止main函数退出
	<-forever
}
