package models

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&RefreshToken{},
		&OTP{},
		&Owner{},
		&Hospital{},
		&HospitalOwner{},
		&HospitalImage{},
		&Department{},
		&UserHospital{},
		&Doctor{},
		&DoctorHospital{},
		&DoctorDepartment{},
		&DoctorImage{},
		&DoctorSchedule{},
		&DoctorReview{},
		&DoctorFee{},
		&Patient{},
		&Appointment{},
		&FavoriteDoctor{},
		&FavoriteHospital{},
		&Advertisement{},
		&AuditLog{},
	}
}
