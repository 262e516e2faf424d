package handlers

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/pagination"
	"yatube/internal/repository"
	"yatube/internal/services"
	"yatube/internal/utils"

	"github.com/gin-gonic/gin"
)

// 首页缓存时长。只按时间过期，发文不主动失效
const indexCacheTTL = 20 * time.Second

type PostHandler struct {
	posts    repository.PostRepository
	groups   repository.GroupRepository
	comments repository.CommentRepository
	follow   *services.FollowService
	images   *services.ImageService
	cache    *utils.PageCache
}

func NewPostHandler(
	posts repository.PostRepository,
	groups repository.GroupRepository,
	comments repository.CommentRepository,
	follow *services.FollowService,
	images *services.ImageService,
	cache *utils.PageCache,
) *PostHandler {
	return &PostHandler{
		posts:    posts,
		groups:   groups,
		comments: comments,
		follow:   follow,
		images:   images,
		cache:    cache,
	}
}

// Index 首页 - 全部文章，带 20 秒页面缓存
func (h *PostHandler) Index(c *gin.Context) {
	page := 1
	if p := c.Query("page"); p != "" {
		if pageNum, err := strconv.Atoi(p); err == nil && pageNum > 0 {
			page = pageNum
		}
	}

	cacheKey := fmt.Sprintf("posts:index:page:%d", page)
	if cached := h.cache.Get(cacheKey); cached != nil {
		if data, ok := cached.(gin.H); ok {
			Render(c, http.StatusOK, "posts/index.html", data)
			return
		}
	}

	ctx := c.Request.Context()
	total, err := h.posts.CountAll(ctx)
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "加载失败")
		return
	}

	pg := pagination.New(total, page, pagination.PerPage)
	posts, err := h.posts.ListAll(ctx, pg.Offset(), pg.Limit())
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "加载失败")
		return
	}
	h.fillCommentCounts(ctx, posts)

	data := gin.H{
		"Title": "最新记录",
		"Posts": posts,
		"Page":  pg,
	}
	h.cache.Set(cacheKey, data, indexCacheTTL)

	Render(c, http.StatusOK, "posts/index.html", data)
}

// GroupPosts 分组下的文章列表
func (h *PostHandler) GroupPosts(c *gin.Context) {
	ctx := c.Request.Context()

	group, err := h.groups.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		RenderError(c, http.StatusNotFound, "分组不存在")
		return
	}

	total, err := h.posts.CountByGroup(ctx, group.ID)
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "加载失败")
		return
	}

	pg := pagination.FromQuery(total, c.Query("page"))
	posts, err := h.posts.ListByGroup(ctx, group.ID, pg.Offset(), pg.Limit())
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "加载失败")
		return
	}
	h.fillCommentCounts(ctx, posts)

	Render(c, http.StatusOK, "posts/group_list.html", gin.H{
		"Title": group.Title,
		"Group": group,
		"Posts": posts,
		"Page":  pg,
	})
}

// commentView 评论 + 渲染后的正文
type commentView struct {
	models.Comment
	TextHTML template.HTML
}

// Detail 文章详情页
func (h *PostHandler) Detail(c *gin.Context) {
	ctx := c.Request.Context()

	post, ok := h.findPost(c)
	if !ok {
		return
	}

	authorPostCount, err := h.posts.CountByAuthor(ctx, post.AuthorID)
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "加载失败")
		return
	}

	comments, err := h.comments.ListByPost(ctx, post.ID)
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "加载失败")
		return
	}
	commentViews := make([]commentView, len(comments))
	for i, comment := range comments {
		commentViews[i] = commentView{
			Comment:  comment,
			TextHTML: utils.RenderMarkdown(comment.Text),
		}
	}

	viewer := middleware.CurrentUser(c)
	following, _ := h.follow.IsFollowing(ctx, viewer, post.AuthorID)

	Render(c, http.StatusOK, "posts/post_detail.html", gin.H{
		"Title":           preview(post.Text),
		"Post":            post,
		"PostText":        utils.RenderMarkdown(post.Text),
		"Author":          post.Author,
		"AuthorPostCount": authorPostCount,
		"Comments":        commentViews,
		"Following":       following,
	})
}

// ShowCreate 发布文章页面
func (h *PostHandler) ShowCreate(c *gin.Context) {
	groups, err := h.groups.List(c.Request.Context())
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "加载失败")
		return
	}
	Render(c, http.StatusOK, "posts/create_post.html", gin.H{
		"Title":  "发布",
		"Groups": groups,
	})
}

// Create 提交新文章。作者一律取当前登录用户，不信任表单
func (h *PostHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	ctx := c.Request.Context()

	form, errMsg := h.parsePostForm(c)
	if errMsg != "" {
		h.renderPostForm(c, http.StatusBadRequest, gin.H{
			"Title":           "发布",
			"Error":           errMsg,
			"Text":            form.text,
			"SelectedGroupID": groupIDValue(form.groupID),
		})
		return
	}

	post := models.Post{
		Text:     form.text,
		AuthorID: user.ID,
		GroupID:  form.groupID,
		Image:    form.imagePath,
	}
	if err := h.posts.Create(ctx, &post); err != nil {
		h.renderPostForm(c, http.StatusInternalServerError, gin.H{
			"Title": "发布",
			"Error": "发布失败",
			"Text":  form.text,
		})
		return
	}

	c.Redirect(http.StatusFound, "/profile/"+user.Username+"/")
}

// ShowEdit 编辑文章页面；非作者直接跳回详情页
func (h *PostHandler) ShowEdit(c *gin.Context) {
	user := middleware.CurrentUser(c)

	post, ok := h.findPost(c)
	if !ok {
		return
	}
	if post.AuthorID != user.ID {
		c.Redirect(http.StatusFound, postDetailPath(post.ID))
		return
	}

	h.renderPostForm(c, http.StatusOK, gin.H{
		"Title":           "编辑文章",
		"Post":            post,
		"Text":            post.Text,
		"SelectedGroupID": groupIDValue(post.GroupID),
		"IsEdit":          true,
	})
}

// Edit 提交文章更新；非作者不报错，跳回详情页
func (h *PostHandler) Edit(c *gin.Context) {
	user := middleware.CurrentUser(c)
	ctx := c.Request.Context()

	post, ok := h.findPost(c)
	if !ok {
		return
	}
	if post.AuthorID != user.ID {
		c.Redirect(http.StatusFound, postDetailPath(post.ID))
		return
	}

	form, errMsg := h.parsePostForm(c)
	if errMsg != "" {
		h.renderPostForm(c, http.StatusBadRequest, gin.H{
			"Title":           "编辑文章",
			"Post":            post,
			"Text":            form.text,
			"SelectedGroupID": groupIDValue(form.groupID),
			"IsEdit":          true,
			"Error":           errMsg,
		})
		return
	}

	post.Text = form.text
	post.GroupID = form.groupID
	if form.imagePath != "" {
		post.Image = form.imagePath
	}
	if err := h.posts.Update(ctx, post); err != nil {
		h.renderPostForm(c, http.StatusInternalServerError, gin.H{
			"Title":  "编辑文章",
			"Post":   post,
			"Text":   form.text,
			"IsEdit": true,
			"Error":  "保存失败",
		})
		return
	}

	c.Redirect(http.StatusFound, postDetailPath(post.ID))
}

// AddComment 发表评论
func (h *PostHandler) AddComment(c *gin.Context) {
	user := middleware.CurrentUser(c)
	ctx := c.Request.Context()

	post, ok := h.findPost(c)
	if !ok {
		return
	}

	text := strings.TrimSpace(c.PostForm("text"))
	if text != "" {
		comment := models.Comment{
			PostID:   post.ID,
			AuthorID: user.ID,
			Text:     text,
		}
		if err := h.comments.Create(ctx, &comment); err != nil {
			RenderError(c, http.StatusInternalServerError, "评论失败")
			return
		}
	}

	c.Redirect(http.StatusFound, postDetailPath(post.ID))
}

// FollowIndex 关注流 - 我关注的作者的文章
func (h *PostHandler) FollowIndex(c *gin.Context) {
	user := middleware.CurrentUser(c)
	ctx := c.Request.Context()

	total, err := h.posts.CountFeed(ctx, user.ID)
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "加载失败")
		return
	}

	pg := pagination.FromQuery(total, c.Query("page"))
	posts, err := h.posts.ListFeed(ctx, user.ID, pg.Offset(), pg.Limit())
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "加载失败")
		return
	}
	h.fillCommentCounts(ctx, posts)

	Render(c, http.StatusOK, "posts/follow.html", gin.H{
		"Title": "我的关注",
		"Posts": posts,
		"Page":  pg,
	})
}

type postForm struct {
	text      string
	groupID   *uint
	imagePath string
}

// parsePostForm 解析并校验发布/编辑表单，返回错误提示串（空串为合法）
func (h *PostHandler) parsePostForm(c *gin.Context) (postForm, string) {
	form := postForm{text: strings.TrimSpace(c.PostForm("text"))}

	if form.text == "" {
		return form, "正文不能为空"
	}
	if utf8.RuneCountInString(form.text) > models.TextLimit {
		return form, fmt.Sprintf("正文不能超过 %d 字", models.TextLimit)
	}

	if groupIDStr := c.PostForm("group_id"); groupIDStr != "" {
		id, err := strconv.Atoi(groupIDStr)
		if err != nil {
			return form, "分组不存在"
		}
		group, err := h.groups.GetByID(c.Request.Context(), uint(id))
		if err != nil {
			return form, "分组不存在"
		}
		form.groupID = &group.ID
	}

	file, header, err := c.Request.FormFile("image")
	if err == nil {
		defer file.Close()
		path, err := h.images.Save(file, header)
		switch {
		case err == services.ErrImageTooLarge:
			return form, "图片不能超过 10MB"
		case err == services.ErrInvalidImageExt:
			return form, "只支持 jpg/png/gif/webp 图片"
		case err != nil:
			return form, "图片上传失败"
		}
		form.imagePath = path
	}

	return form, ""
}

// renderPostForm 渲染发布/编辑表单，补齐分组下拉选项
func (h *PostHandler) renderPostForm(c *gin.Context, code int, data gin.H) {
	groups, err := h.groups.List(c.Request.Context())
	if err == nil {
		data["Groups"] = groups
	}
	if _, ok := data["SelectedGroupID"]; !ok {
		data["SelectedGroupID"] = uint(0)
	}
	Render(c, code, "posts/create_post.html", data)
}

// findPost 按路径参数取文章，不存在时渲染 404 并返回 false
func (h *PostHandler) findPost(c *gin.Context) (*models.Post, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		RenderError(c, http.StatusNotFound, "文章不存在")
		return nil, false
	}

	post, err := h.posts.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		RenderError(c, http.StatusNotFound, "文章不存在")
		return nil, false
	}
	return post, true
}

func (h *PostHandler) fillCommentCounts(ctx context.Context, posts []models.Post) {
	if len(posts) == 0 {
		return
	}

	postIDs := make([]uint, len(posts))
	for i, post := range posts {
		postIDs[i] = post.ID
	}

	counts, err := h.comments.CountByPosts(ctx, postIDs)
	if err != nil {
		return
	}
	for i := range posts {
		posts[i].CommentCount = counts[posts[i].ID]
	}
}

func postDetailPath(id uint) string {
	return fmt.Sprintf("/posts/%d/", id)
}

func groupIDValue(id *uint) uint {
	if id != nil {
		return *id
	}
	return 0
}

// preview 截取正文开头用作页面标题
func preview(text string) string {
	runes := []rune(text)
	if len(runes) > 30 {
		return string(runes[:30]) + "..."
	}
	return text
}
