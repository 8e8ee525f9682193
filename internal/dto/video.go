package dto

import (
	"Vega_Tube/internal/model"
	"time"
)

type VideoResponse struct {
	ID          uint64    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VideoURL    string    `json:"video_url"`
	CoverURL    string    `json:"cover_url"`
	Author      UserInfo  `json:"author"`
}

// ToVideoResponse 把DB模型转换为API响应模型，正确利用preload返回的数据，增强返回数据的健壮性
func ToVideoResponse(video *model.Video) VideoResponse {
	resp := VideoResponse{
		ID:          video.ID,
		CreatedAt:   video.CreatedAt,
		Title:       video.Title,
		Description: video.Description,
		VideoURL:    video.VideoURL,
		CoverURL:    video.CoverURL,
	}
	// 检查Author是否被成功preload
	if video.Author.ID != 0 {
		resp.Author = UserInfo{
			ID:        video.Author.ID,
			Username:  video.Author.Username,
			AvatarURL: video.Author.AvatarURL,
		}
	} else {
		// 如果没有preload，就只返回video结构体自己记录的作者ID
		resp.Author.ID = video.AuthorID
	}
	return resp
}
