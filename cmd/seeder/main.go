// cmd/seeder/main.go

package main

import (
	"Vega_Tube/internal/model"
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/go-faker/faker/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func main() {
	fmt.Println("🚀 开始填充测试数据...")

	// --- 1. 连接数据库 ---
	// 注意：这里的DSN需要和server/main.go中的保持一致
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(127.0.0.1:3306)/vega_tube?charset=utf8mb4&parseTime=True&loc=Local"
	}
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("❌ 无法连接到数据库: %v", err)
	}
	fmt.Println("✅ 数据库连接成功!")

	// --- 2. 清理旧数据 ---
	fmt.Println("🧹 正在清理旧数据...")
	// 为了确保每次填充都是干净的，先删除旧表再重建
	// 注意：这将删除所有数据！
	db.Migrator().DropTable(&model.CommentVote{}, &model.Comment{}, &model.Video{}, &model.User{})
	fmt.Println("✅ 旧表删除成功!")

	// 重新迁移，创建新表
	db.AutoMigrate(&model.User{}, &model.Video{}, &model.Comment{}, &model.CommentVote{})
	fmt.Println("✅ 数据库迁移成功!")

	// --- 3. 创建用户 ---
	fmt.Println("👥 正在创建用户...")
	userCount := 100
	for i := 0; i < userCount; i++ {
		// 使用faker生成随机用户名
		username := faker.Username()

		// 为所有用户设置一个简单的默认密码 "password"
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("❌ 密码加密失败: %v", err)
		}

		user := model.User{
			Username:  username,
			Password:  string(hashedPassword),
			AvatarURL: fmt.Sprintf("https://test.com/avatar/%d.jpg", i+1),
		}
		db.Create(&user)
	}
	fmt.Printf("✅ 成功创建 %d 个用户!\n", userCount)

	// --- 4. 创建视频 ---
	fmt.Println("🎬 正在创建视频...")
	videoCount := 50
	for i := 0; i < videoCount; i++ {
		video := model.Video{
			// 从已创建的100个用户中，随机选择一个作为作者
			// rand.Intn(userCount) 会生成 [0, 99] 之间的随机数, +1 后变为 [1, 100]
			AuthorID:    uint64(rand.Intn(userCount) + 1),
			Title:       faker.Sentence(),  // 生成一个随机的句子作为标题
			Description: faker.Paragraph(), // 生成一个随机的段落作为简介
			VideoURL:    "https://test.com/video.mp4",
			CoverURL:    "https://test.com/cover.jpg",
		}
		db.Create(&video)
	}
	fmt.Printf("✅ 成功创建 %d 个视频!\n", videoCount)

	// --- 5. 创建评论 ---
	fmt.Println("💬 正在创建评论...")
	commentCount := 2000
	for i := 0; i < commentCount; i++ {
		comment := model.Comment{
			VideoID: uint64(rand.Intn(videoCount) + 1),
			UserID:  uint64(rand.Intn(userCount) + 1),
			Content: faker.Sentence(),
			// 大约2%的评论被频道主置顶，1%被红心，用来压测Feed的三段合并
			Pinned:  rand.Intn(100) < 2,
			Hearted: rand.Intn(100) < 1,
		}
		db.Create(&comment)
	}
	fmt.Printf("✅ 成功创建 %d 条评论!\n", commentCount)

	// --- 6. 创建投票记录 ---
	fmt.Println("👍 正在创建随机投票...")
	voteCount := 5000
	for i := 0; i < voteCount; i++ {
		polarity := model.PolarityLike
		// 大约四分之一的票是踩
		if rand.Intn(4) == 0 {
			polarity = model.PolarityDislike
		}
		commentID := uint64(rand.Intn(commentCount) + 1)
		userID := uint64(rand.Intn(userCount) + 1)
		// 表上没有唯一索引，“一人一票”靠先删后插，seeder也遵守同一套规则
		// 不然灌出来的数据会违反线上不变式，top排序的测试就没意义了
		db.Exec("DELETE FROM comment_votes WHERE comment_id = ? AND user_id = ?", commentID, userID)
		db.Create(&model.CommentVote{
			CommentID: commentID,
			UserID:    userID,
			Polarity:  polarity,
		})
	}
	fmt.Printf("✅ 成功创建(或尝试创建) %d 条投票!\n", voteCount)

	fmt.Println("🎉🎉🎉 所有测试数据填充完毕! 🎉🎉🎉")
}
