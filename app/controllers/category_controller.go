package controllers

import (
	"github.com/shashiranjanraj/catalog/app/requests"
	"github.com/shashiranjanraj/catalog/app/services"
	"github.com/shashiranjanraj/catalog/pkg/ctx"
)

// CategoryController binds and validates category requests for CategoryService.
type CategoryController struct {
	service   *services.CategoryService
	validator ctx.Checker
}

// NewCategoryController returns a CategoryController.
func NewCategoryController(service *services.CategoryService, validator ctx.Checker) *CategoryController {
	return &CategoryController{service: service, validator: validator}
}

func (cc *CategoryController) Insert(c *ctx.Context) {
	var in requests.InsertCategory
	if !c.Bind(&in, cc.validator) {
		return
	}
	c.Result(cc.service.Insert(c.Context(), in))
}

func (cc *CategoryController) Update(c *ctx.Context) {
	var in requests.UpdateCategory
	if !c.Bind(&in, cc.validator) {
		return
	}
	c.Result(cc.service.Update(c.Context(), in))
}

func (cc *CategoryController) List(c *ctx.Context) {
	c.Result(cc.service.GetAll(c.Context()))
}

func (cc *CategoryController) Show(c *ctx.Context) {
	var in requests.CategoryByID
	if !c.Bind(&in, cc.validator) {
		return
	}
	c.Result(cc.service.GetByID(c.Context(), in))
}

func (cc *CategoryController) Dropdown(c *ctx.Context) {
	c.Result(cc.service.GetDropdown(c.Context()))
}
