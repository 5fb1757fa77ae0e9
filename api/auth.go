package api

import (
	"log"

	"fintrack/config"
	"fintrack/middleware"
	"fintrack/models"
	"fintrack/service"
	"fintrack/store"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	cfg          *config.Config
	users        store.UserStore
	txns         store.TransactionStore
	emailService *service.EmailService
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(cfg *config.Config, users store.UserStore, txns store.TransactionStore) *AuthHandler {
	return &AuthHandler{
		cfg:          cfg,
		users:        users,
		txns:         txns,
		emailService: service.NewEmailService(&cfg.Email),
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50" example:"testuser"`
	Password string `json:"password" binding:"required,min=6,max=50" example:"password123"`
	Email    string `json:"email" binding:"omitempty,email" example:"test@example.com"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"testuser"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token    string      `json:"token"`
	UserInfo models.User `json:"userInfo"`
}

// Register 用户注册
// @Summary 用户注册
// @Description 创建新用户账号，并为其初始化默认收支类别
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "注册信息"
// @Success 200 {object} Response{data=models.User} "注册成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 500 {object} Response "服务器错误"
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	// 检查用户名是否已存在
	existing, err := h.users.FindUserByUsername(req.Username)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "注册失败"))
		return
	}
	if existing != nil {
		BadRequest(c, "用户名已存在")
		return
	}

	// 加密密码
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, "密码加密失败")
		return
	}

	user := models.User{
		Username: req.Username,
		Password: string(hashedPassword),
		Email:    req.Email,
	}
	if err := h.users.CreateUser(&user); err != nil {
		InternalError(c, SafeErrorMessage(err, "创建用户失败"))
		return
	}

	// 初始化默认类别，失败不阻断注册
	for _, seed := range models.DefaultCategories() {
		cat := models.Category{UserID: user.ID, Name: seed.Name, Type: seed.Type}
		if err := h.txns.CreateCategory(&cat); err != nil {
			log.Printf("初始化默认类别失败 user=%d name=%s: %v", user.ID, cat.Name, err)
		}
	}

	// 异步发送欢迎邮件
	if h.emailService.Enabled() && user.Email != "" {
		go func(email, username string) {
			if err := h.emailService.SendWelcomeEmail(email, username); err != nil {
				log.Printf("发送欢迎邮件失败: %v", err)
			}
		}(user.Email, user.Username)
	}

	SuccessWithMessage(c, "注册成功", user)
}

// Login 用户登录
// @Summary 用户登录
// @Description 用户登录获取 JWT token
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录信息"
// @Success 200 {object} Response{data=LoginResponse} "登录成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "用户名或密码错误"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	user, err := h.users.FindUserByUsername(req.Username)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "登录失败"))
		return
	}
	// 用户不存在与密码错误返回相同的消息，不泄露账号存在性
	if user == nil {
		Unauthorized(c, "用户名或密码错误")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		Unauthorized(c, "用户名或密码错误")
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Username, h.cfg.JWT.ExpireTime)
	if err != nil {
		InternalError(c, "生成 token 失败")
		return
	}

	Success(c, LoginResponse{
		Token:    token,
		UserInfo: *user,
	})
}

// GetProfile 获取用户信息
// @Summary 获取当前用户信息
// @Description 获取当前登录用户的详细信息
// @Tags 认证
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.User} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/auth/profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	user, err := h.users.FindUserByID(userID)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}
	if user == nil {
		NotFound(c, "用户不存在")
		return
	}

	Success(c, user)
}
