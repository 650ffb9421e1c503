package models

import "mezgeb/db"

func Init() {
	db.Instance.AutoMigrate(&User{})
	db.Instance.AutoMigrate(&Credential{})
	db.Instance.AutoMigrate(&Event{})
	db.Instance.AutoMigrate(&Album{})
	db.Instance.AutoMigrate(&Media{})
}
