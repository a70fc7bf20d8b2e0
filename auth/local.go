package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ydbwellness/ydb/docstore"
)

// Accounts is the collection holding local credentials.
const Accounts = "accounts"

const (
	issuer     = "ydb"
	defaultTTL = 12 * time.Hour
	minPassLen = 6
)

type account struct {
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
}

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Local is a Provider backed by a docstore collection and HMAC-signed tokens.
type Local struct {
	store  docstore.Store
	secret []byte
	ttl    time.Duration
	log    *zap.Logger
	now    func() time.Time
}

var _ Provider = (*Local)(nil)

// NewLocal returns a provider. Tokens are valid for ttl (12h when zero).
func NewLocal(store docstore.Store, secret string, ttl time.Duration, log *zap.Logger) *Local {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Local{store: store, secret: []byte(secret), ttl: ttl, log: log, now: time.Now}
}

func (l *Local) find(ctx context.Context, email string) (docstore.Document, bool, error) {
	docs, err := l.store.Query(ctx, docstore.Collection(Accounts).Where("email", email).Limit(1))
	if err != nil {
		return docstore.Document{}, false, fmt.Errorf("auth: lookup account: %w", err)
	}
	if len(docs) == 0 {
		return docstore.Document{}, false, nil
	}
	return docs[0], true, nil
}

// SignUp registers a new account.
func (l *Local) SignUp(ctx context.Context, email, password string) (User, error) {
	email = NormalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return User{}, ErrInvalidEmail
	}
	if len(password) < minPassLen {
		return User{}, ErrWeakPassword
	}
	if _, ok, err := l.find(ctx, email); err != nil {
		return User{}, err
	} else if ok {
		return User{}, ErrEmailTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("auth: hash password: %w", err)
	}
	id, err := l.store.Add(ctx, Accounts, docstore.Fields{
		"email":        email,
		"passwordHash": string(hash),
		"createdAt":    docstore.ServerTimestamp,
	})
	if err != nil {
		return User{}, fmt.Errorf("auth: create account: %w", err)
	}
	l.log.Info("account created", zap.String("uid", id))
	return User{UID: id, Email: email}, nil
}

// SignIn checks credentials and returns a fresh ID token.
func (l *Local) SignIn(ctx context.Context, email, password string) (string, User, error) {
	email = NormalizeEmail(email)
	doc, ok, err := l.find(ctx, email)
	if err != nil {
		return "", User{}, err
	}
	if !ok {
		return "", User{}, ErrInvalidCredentials
	}
	var acc account
	if err := doc.Decode(&acc); err != nil {
		return "", User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)); err != nil {
		return "", User{}, ErrInvalidCredentials
	}
	u := User{UID: doc.ID, Email: acc.Email}
	token, err := l.Issue(u)
	if err != nil {
		return "", User{}, err
	}
	return token, u, nil
}

// Issue signs an ID token for u.
func (l *Local) Issue(u User) (string, error) {
	now := l.now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.UID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(l.ttl)),
		},
	})
	s, err := t.SignedString(l.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return s, nil
}

// Verify parses token and returns the identity it carries.
func (l *Local) Verify(token string) (User, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return l.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(l.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return User{}, fmt.Errorf("%w: expired", ErrInvalidToken)
		}
		return User{}, ErrInvalidToken
	}
	if c.Subject == "" {
		return User{}, ErrInvalidToken
	}
	return User{UID: c.Subject, Email: c.Email}, nil
}
