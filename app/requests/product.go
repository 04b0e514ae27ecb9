package requests

import "mime/multipart"

// InsertProduct is the insert_product form.
type InsertProduct struct {
	Name        string                `form:"product_name"        validate:"required,string,max=100,unique_scoped=product,name,category_id"`
	Image       *multipart.FileHeader `form:"product_image"       validate:"required,image,mimes=jpeg,png,jpg,gif,svg,max=2048"`
	Description string                `form:"product_description" validate:"required,string"`
	CategoryID  int64                 `form:"category_id"         validate:"required,integer,exists=category,id"`
}

// UpdateProduct is the update_product form. Status must always be sent.
// Moving a product to another category without renaming it checks that its
// stored name is free there.
type UpdateProduct struct {
	ID          *int64                `form:"id"                  validate:"required,integer,exists=product,id"`
	Name        *string               `form:"product_name"        validate:"nullable,string,max=100,unique_scoped=product,name,category_id,id"`
	Image       *multipart.FileHeader `form:"product_image"       validate:"nullable,image,mimes=jpeg,png,jpg,gif,svg,max=2048"`
	Description *string               `form:"product_description" validate:"nullable,string"`
	CategoryID  *int64                `form:"category_id"         validate:"nullable,integer,exists=category,id,unique_rescoped=product,name,product_name,id"`
	Status      string                `form:"status"              validate:"required,in=ON,OFF"`
}

// ProductList is the get_product query.
type ProductList struct {
	CategoryID *int64 `form:"category_id" validate:"nullable,integer"`
}

// ProductByID is the get_product_by_id query.
type ProductByID struct {
	ID *int64 `form:"id" validate:"required,integer,exists=product,id"`
}
