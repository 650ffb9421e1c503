package models

import "mezgeb/db"

type User struct {
	ID        uint64 `gorm:"primaryKey" json:"id"`
	CreatedAt int64  `json:"-"`
	UpdatedAt int64  `json:"-"`
	Email     string `gorm:"type:varchar(150);index:uniq_email,unique" json:"email"`
	Name      string `gorm:"type:varchar(100)" json:"name"`
	Picture   string `gorm:"type:varchar(500)" json:"picture"`
}

// UserUpsertByEmail creates or refreshes the user row for a Google sign-in.
func UserUpsertByEmail(email, name, picture string) (u User, err error) {
	result := db.Instance.First(&u, "email = ?", email)
	if result.Error == nil {
		u.Name = name
		u.Picture = picture
		return u, db.Instance.Save(&u).Error
	}
	u = User{
		Email:   email,
		Name:    name,
		Picture: picture,
	}
	return u, db.Instance.Create(&u).Error
}
