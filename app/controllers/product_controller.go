package controllers

import (
	"github.com/shashiranjanraj/catalog/app/requests"
	"github.com/shashiranjanraj/catalog/app/services"
	"github.com/shashiranjanraj/catalog/pkg/ctx"
)

// ProductController binds and validates product requests for ProductService.
type ProductController struct {
	service   *services.ProductService
	validator ctx.Checker
}

// NewProductController returns a ProductController.
func NewProductController(service *services.ProductService, validator ctx.Checker) *ProductController {
	return &ProductController{service: service, validator: validator}
}

func (pc *ProductController) Insert(c *ctx.Context) {
	var in requests.InsertProduct
	if !c.Bind(&in, pc.validator) {
		return
	}
	c.Result(pc.service.Insert(c.Context(), in))
}

func (pc *ProductController) Update(c *ctx.Context) {
	var in requests.UpdateProduct
	if !c.Bind(&in, pc.validator) {
		return
	}
	c.Result(pc.service.Update(c.Context(), in))
}

func (pc *ProductController) List(c *ctx.Context) {
	var in requests.ProductList
	if !c.Bind(&in, pc.validator) {
		return
	}
	c.Result(pc.service.GetAll(c.Context(), in))
}

func (pc *ProductController) Show(c *ctx.Context) {
	var in requests.ProductByID
	if !c.Bind(&in, pc.validator) {
		return
	}
	c.Result(pc.service.GetByID(c.Context(), in))
}
