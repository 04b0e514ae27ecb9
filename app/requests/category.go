// Package requests holds the form of every write and lookup operation.
// The struct a route binds decides which rules apply, so insert and update
// never share a rule set.
package requests

import "mime/multipart"

// InsertCategory is the insert_category form.
type InsertCategory struct {
	Name           string                `form:"category_name"   validate:"required,string,max=100,unique=category,name"`
	Image          *multipart.FileHeader `form:"category_image"  validate:"required,image,mimes=jpeg,png,jpg,gif,svg,max=2024"`
	ParentCategory *int64                `form:"parent_category" validate:"nullable,integer"`
}

// UpdateCategory is the update_category form. Every field but id is optional.
type UpdateCategory struct {
	ID             *int64                `form:"id"              validate:"required,integer,exists=category,id"`
	Name           *string               `form:"category_name"   validate:"nullable,string,max=100,unique=category,name,id"`
	Image          *multipart.FileHeader `form:"category_image"  validate:"nullable,image,mimes=jpeg,png,jpg,gif,svg,max=2024"`
	ParentCategory *int64                `form:"parent_category" validate:"nullable,integer"`
	Status         *string               `form:"status"          validate:"nullable,in=ON,OFF"`
}

// CategoryByID is the get_category_by_id query.
type CategoryByID struct {
	ID *int64 `form:"id" validate:"required,integer"`
}
