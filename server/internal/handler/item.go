package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sharemart/sharing-service/server/internal/model"
)

func (h *Handler) CreateItem(c echo.Context) error {
	userID, err := sharerID(c)
	if err != nil {
		return err
	}
	var item model.Item
	if err := c.Bind(&item); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	created, err := h.itemSvc.Create(c.Request().Context(), userID, item)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, created)
}

func (h *Handler) GetItem(c echo.Context) error {
	userID, err := sharerID(c)
	if err != nil {
		return err
	}
	itemID, err := pathID(c, "itemId")
	if err != nil {
		return err
	}
	item, err := h.itemSvc.Get(c.Request().Context(), userID, itemID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *Handler) ListItems(c echo.Context) error {
	userID, err := sharerID(c)
	if err != nil {
		return err
	}
	page, err := pageQuery(c)
	if err != nil {
		return err
	}
	items, err := h.itemSvc.List(c.Request().Context(), userID, page)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) UpdateItem(c echo.Context) error {
	userID, err := sharerID(c)
	if err != nil {
		return err
	}
	itemID, err := pathID(c, "itemId")
	if err != nil {
		return err
	}
	var patch model.ItemPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	item, err := h.itemSvc.Update(c.Request().Context(), userID, itemID, patch)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *Handler) DeleteItem(c echo.Context) error {
	userID, err := sharerID(c)
	if err != nil {
		return err
	}
	itemID, err := pathID(c, "itemId")
	if err != nil {
		return err
	}
	if err := h.itemSvc.Delete(c.Request().Context(), userID, itemID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) SearchItems(c echo.Context) error {
	page, err := pageQuery(c)
	if err != nil {
		return err
	}
	items, err := h.itemSvc.Search(c.Request().Context(), c.QueryParam("text"), page)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) CreateComment(c echo.Context) error {
	userID, err := sharerID(c)
	if err != nil {
		return err
	}
	itemID, err := pathID(c, "itemId")
	if err != nil {
		return err
	}
	var comment model.Comment
	if err := c.Bind(&comment); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	created, err := h.itemSvc.CreateComment(c.Request().Context(), userID, itemID, comment)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, created)
}
