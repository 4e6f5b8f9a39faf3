package main

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"os"
	"strconv"
	"time"

	"cardwallet/models"
	"cardwallet/pkg/capture"
	"cardwallet/pkg/cardimage"
	"cardwallet/pkg/cardscan"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func setupRoutes(r *gin.Engine) {
	r.POST("/register", registerHandler)
	r.POST("/login", loginHandler)
	r.POST("/refresh", refreshHandler)
	r.POST("/revoke_refresh", revokeRefreshHandler)
	authGroup := r.Group("")
	authGroup.Use(jwtAuthMiddleware())
	authGroup.GET("/me", meHandler)
	authGroup.POST("/cards", createCardHandler)
	authGroup.GET("/cards", listCardsHandler)
	authGroup.GET("/cards/:id", getCardHandler)
	authGroup.PUT("/cards/:id", updateCardHandler)
	authGroup.DELETE("/cards/:id", deleteCardHandler)
	authGroup.POST("/cards/:id/scans", scanCardHandler)
	authGroup.GET("/cards/:id/scans", listScansHandler)
	authGroup.POST("/extract", extractHandler)
}

func jwtAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			c.Abort()
			return
		}
		tokenString := authHeader[7:]
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrInvalidKeyType
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			c.Abort()
			return
		}
		username, _ := claims["username"].(string)
		role, _ := claims["role"].(string)
		c.Set("username", username)
		if role != "" {
			c.Set("role", role)
		}
		c.Next()
	}
}

func meHandler(c *gin.Context) {
	usernameVal, _ := c.Get("username")
	if usernameVal == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "context missing username"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": usernameVal.(string)})
}

// getUserFromContext fetches the currently authenticated user using the username set by jwtAuthMiddleware
func getUserFromContext(c *gin.Context) (*models.User, bool) {
	unameVal, _ := c.Get("username")
	if unameVal == nil {
		return nil, false
	}
	var user models.User
	if err := db.Where("username = ?", unameVal.(string)).First(&user).Error; err != nil {
		return nil, false
	}
	return &user, true
}

// getOwnedCard loads a card by path id and checks it belongs to the caller.
func getOwnedCard(c *gin.Context, user *models.User) (*models.Card, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid card id"})
		return nil, false
	}
	var card models.Card
	if err := db.Where("id = ? AND user_id = ?", id, user.ID).First(&card).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
		return nil, false
	}
	return &card, true
}

// cardCategory rebuilds the scan category from a stored card row.
func cardCategory(card *models.Card) cardscan.Category {
	kind := cardscan.KindFromString(card.Category)
	if kind == cardscan.KindCustom {
		return cardscan.Custom(card.CustomName, card.CustomColor)
	}
	return cardscan.Category{Kind: kind}
}

type cardRequest struct {
	Label       string `json:"label" binding:"required"`
	Category    string `json:"category" binding:"required"`
	CustomName  string `json:"custom_name"`
	CustomColor string `json:"custom_color"`
}

// createCardHandler stores a new wallet card and renders its gradient face.
func createCardHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req cardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	card := models.Card{
		UserID:      user.ID,
		Label:       req.Label,
		Category:    req.Category,
		CustomName:  req.CustomName,
		CustomColor: req.CustomColor,
	}
	if err := db.Create(&card).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	// Face rendering is cosmetic; a failure must not lose the card.
	facePath := "faces/card_" + strconv.FormatUint(uint64(card.ID), 10) + ".png"
	fullFace := uploadBaseDir() + "/" + facePath
	_ = os.MkdirAll(uploadBaseDir()+"/faces", 0755)
	if err := cardimage.SaveFace(cardCategory(&card).DefaultColor(), fullFace); err == nil {
		card.FacePath = "public/" + facePath
		db.Model(&card).Update("face_path", card.FacePath)
	}
	c.JSON(http.StatusOK, gin.H{"id": card.ID, "face_path": card.FacePath})
}

func listCardsHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var cards []models.Card
	if err := db.Where("user_id = ?", user.ID).Order("id desc").Limit(200).Find(&cards).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, cards)
}

func getCardHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	card, ok := getOwnedCard(c, user)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, card)
}

// updateCardHandler lets the user correct or fill fields manually — the
// feedback loop for wrong or missing extraction results.
func updateCardHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	card, ok := getOwnedCard(c, user)
	if !ok {
		return
	}
	var req struct {
		Label      *string `json:"label"`
		Number     *string `json:"number"`
		ExpiryDate *string `json:"expiry_date"`
		HolderName *string `json:"holder_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updates := map[string]interface{}{}
	if req.Label != nil {
		updates["label"] = *req.Label
	}
	if req.Number != nil {
		updates["number"] = *req.Number
	}
	if req.ExpiryDate != nil {
		updates["expiry_date"] = *req.ExpiryDate
	}
	if req.HolderName != nil {
		updates["holder_name"] = *req.HolderName
	}
	if len(updates) > 0 {
		if err := db.Model(card).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
			return
		}
	}
	c.JSON(http.StatusOK, card)
}

func deleteCardHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	card, ok := getOwnedCard(c, user)
	if !ok {
		return
	}
	if err := db.Delete(card).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "card deleted"})
}

// scanCardHandler accepts one photographed card side, runs recognition and
// extraction, persists the front-side fields and returns everything found.
// The security code is returned but never stored.
func scanCardHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	card, ok := getOwnedCard(c, user)
	if !ok {
		return
	}
	side := cardscan.SideFromString(c.PostForm("side"))
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file missing"})
		return
	}
	if file.Size > 5*1024*1024 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large (max 5MB)"})
		return
	}
	baseDir := uploadBaseDir()
	cardDir := "cards/" + strconv.FormatUint(uint64(card.ID), 10)
	relPath := cardDir + "/" + file.Filename
	fullPath := baseDir + "/" + relPath
	if err := os.MkdirAll(baseDir+"/"+cardDir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "mkdir failed"})
		return
	}
	if err := c.SaveUploadedFile(file, fullPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	scan := models.ScanImage{
		FileName:    file.Filename,
		StorePath:   "public/" + relPath,
		ContentType: file.Header.Get("Content-Type"),
		CardID:      card.ID,
		Side:        side.String(),
	}
	if err := db.Create(&scan).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "record failed"})
		return
	}

	text, err := capture.RecognizeCardText(fullPath)
	if err != nil {
		db.Model(&scan).Updates(map[string]interface{}{"failed": true, "failed_reason": err.Error()})
		c.JSON(http.StatusUnprocessableEntity, gin.H{"fields": gin.H{}, "manual_entry": true, "error": "no text recognized"})
		return
	}
	opts := cardscan.Options{
		StrictLuhn:   c.PostForm("strict") == "1",
		AllowExpired: c.PostForm("allow_expired") == "1",
	}
	fields := cardscan.ExtractWithOptions(text, cardCategory(card), side, opts)
	db.Model(&scan).Update("processed", true)
	if len(fields) == 0 {
		// Valid outcome: the caller should fall back to manual entry.
		db.Model(&scan).Updates(map[string]interface{}{"failed": true, "failed_reason": "no fields recognized"})
		c.JSON(http.StatusOK, gin.H{"fields": fields, "manual_entry": true})
		return
	}
	applyFrontFields(card, fields)
	c.JSON(http.StatusOK, gin.H{"fields": fields, "manual_entry": false})
}

// applyFrontFields persists extracted front-side values onto the card row.
func applyFrontFields(card *models.Card, fields cardscan.Fields) {
	updates := map[string]interface{}{}
	if v, ok := fields[cardscan.FieldCardNumber]; ok {
		updates["number"] = v
	}
	if v, ok := fields[cardscan.FieldExpiryDate]; ok {
		updates["expiry_date"] = v
	}
	if v, ok := fields[cardscan.FieldCardholderName]; ok {
		updates["holder_name"] = v
	}
	if len(updates) > 0 {
		db.Model(card).Updates(updates)
	}
}

func listScansHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	card, ok := getOwnedCard(c, user)
	if !ok {
		return
	}
	var scans []models.ScanImage
	if err := db.Where("card_id = ?", card.ID).Order("id desc").Find(&scans).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, scans)
}

// extractHandler is the bare library boundary for clients that already ran
// text recognition on-device and only need the field extraction.
func extractHandler(c *gin.Context) {
	var req struct {
		RawText      string `json:"raw_text"`
		Category     string `json:"category" binding:"required"`
		CustomName   string `json:"custom_name"`
		CustomColor  string `json:"custom_color"`
		Side         string `json:"side"`
		Strict       bool   `json:"strict"`
		AllowExpired bool   `json:"allow_expired"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	kind := cardscan.KindFromString(req.Category)
	cat := cardscan.Category{Kind: kind}
	if kind == cardscan.KindCustom {
		cat = cardscan.Custom(req.CustomName, req.CustomColor)
	}
	fields := cardscan.ExtractWithOptions(req.RawText, cat, cardscan.SideFromString(req.Side), cardscan.Options{
		StrictLuhn:   req.Strict,
		AllowExpired: req.AllowExpired,
	})
	c.JSON(http.StatusOK, gin.H{"fields": fields, "manual_entry": len(fields) == 0})
}

func registerHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := Register(req.Username, req.Password); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user registered successfully"})
}

func loginHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := Login(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	// Generate JWT token. Resolve role name from RoleID (we only store role_id now).
	roleName := ""
	if user.RoleID != nil {
		var r models.Role
		if err := db.First(&r, *user.RoleID).Error; err == nil {
			roleName = r.Name
		}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": user.Username,
		"role":     roleName,
		"exp":      time.Now().Add(time.Hour * 24).Unix(),
	})
	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	refreshToken, err := createAndStoreRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "login successful", "token": tokenString, "refresh_token": refreshToken})
}

// createAndStoreRefreshToken generates a random refresh token, stores its hash with expiry and returns the raw token string
func createAndStoreRefreshToken(userID uint) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := hex.EncodeToString(b)
	h := sha256.Sum256([]byte(token))
	rt := models.RefreshToken{UserID: userID, TokenHash: hex.EncodeToString(h[:]), ExpiresAt: time.Now().Add(30 * 24 * time.Hour)}
	if err := db.Create(&rt).Error; err != nil {
		return "", err
	}
	return token, nil
}

func findRefreshTokenByRaw(token string) (*models.RefreshToken, error) {
	h := sha256.Sum256([]byte(token))
	var rt models.RefreshToken
	if err := db.Where("token_hash = ?", hex.EncodeToString(h[:])).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

// refreshHandler exchanges a refresh token for a new access token and rotates the refresh token
func refreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil || rt.Revoked || time.Now().After(rt.ExpiresAt) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
		return
	}
	var user models.User
	if err := db.First(&user, rt.UserID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	roleName := ""
	if user.RoleID != nil {
		var r models.Role
		if err := db.First(&r, *user.RoleID).Error; err == nil {
			roleName = r.Name
		}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": user.Username,
		"role":     roleName,
		"exp":      time.Now().Add(15 * time.Minute).Unix(),
	})
	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	// rotate refresh token: revoke existing and create new one
	db.Model(&models.RefreshToken{}).Where("id = ?", rt.ID).Update("revoked", true)
	newRT, err := createAndStoreRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to rotate refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tokenString, "refresh_token": newRT})
}

// revokeRefreshHandler revokes a given refresh token (useful on logout)
func revokeRefreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "refresh token not found"})
		return
	}
	rt.Revoked = true
	if err := db.Save(rt).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "refresh token revoked"})
}
