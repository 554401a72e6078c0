package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNotLoggedIn 本地没有可用会话
var ErrNotLoggedIn = errors.New("not logged in")

const stateFileMode = 0o600

// Session 持久化的会话状态
type Session struct {
	Token    string    `json:"token"`
	Username string    `json:"username"`
	UserID   uint      `json:"user_id"`
	SavedAt  time.Time `json:"saved_at"`
}

// Store 磁盘上的会话存储
// 实现 api.TokenSource，token 以 0600 权限落盘
type Store struct {
	mu      sync.Mutex
	path    string
	current *Session
}

// NewStore 创建会话存储并读入已有状态
// path 为空时使用用户配置目录下的 storefront/session.json
func NewStore(path string) (*Store, error) {
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "storefront", "session.json")
	}
	s := &Store{path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Token 返回当前会话 token，未登录时为空串
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ""
	}
	return s.current.Token
}

// Current 返回当前会话，未登录时返回 ErrNotLoggedIn
func (s *Store) Current() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, ErrNotLoggedIn
	}
	session := *s.current
	return &session, nil
}

// LoggedIn 返回本地是否存在未过期的会话
func (s *Store) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil
}

// Save 写入新会话并落盘
func (s *Store) Save(session Session) error {
	if session.Token == "" {
		return errors.New("session token is empty")
	}
	session.SavedAt = time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, stateFileMode); err != nil {
		return err
	}
	s.current = &session
	return nil
}

// Clear 删除本地会话，文件不存在时视为成功
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// load 读入已落盘的会话，过期 token 按未登录处理
func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		// 状态文件损坏时丢弃，让用户重新登录
		return os.Remove(s.path)
	}
	if session.Token == "" || tokenExpired(session.Token) {
		return nil
	}
	s.current = &session
	return nil
}

// tokenExpired 尽力检查 JWT 是否已过期
// 只看声明不验签名，真正的鉴权由服务端完成；
// 解析失败或没有 exp 声明时按未过期处理，交给服务端拒绝
func tokenExpired(token string) bool {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &jwt.RegisteredClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return time.Now().After(claims.ExpiresAt.Time)
}
