package utils

import "golang.org/x/crypto/bcrypt"

// MinPasswordCost 所有注册/改密路径统一使用的最低 bcrypt 成本
const MinPasswordCost = 12

// PasswordHasher 单向加盐哈希 + 比对
type PasswordHasher struct {
	Cost int
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < MinPasswordCost {
		cost = MinPasswordCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &PasswordHasher{Cost: cost}
}

func (h *PasswordHasher) Hash(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), h.Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Check 只通过 bcrypt 自身比较，不对摘要做直接相等判断
func (h *PasswordHasher) Check(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}
