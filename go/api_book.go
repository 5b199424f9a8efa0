package bookstoreserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	catalogdomain "github.com/libreria/bookstore-api/internal/domains/catalog/domain"
	catalogports "github.com/libreria/bookstore-api/internal/domains/catalog/ports"
)

// BookAPI wires HTTP transport with the catalog bounded context service.
type BookAPI struct {
	service catalogports.Service
}

// NewBookAPI creates a BookAPI backed by the provided service.
func NewBookAPI(service catalogports.Service) BookAPI {
	return BookAPI{service: service}
}

// Book is the transport shape of a catalog book.
type Book struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	AuthorID string   `json:"authorId"`
	Price    float64  `json:"price"`
	Stock    int      `json:"stock"`
	Genres   []string `json:"genres,omitempty"`
}

// Author is the transport shape of a catalog author.
type Author struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func fromDomainBook(book *catalogdomain.Book) Book {
	return Book{
		ID:       book.ID,
		Title:    book.Title,
		AuthorID: book.AuthorID,
		Price:    book.Price,
		Stock:    book.Stock,
		Genres:   book.Genres,
	}
}

func fromDomainBookList(books []*catalogdomain.Book) []Book {
	out := make([]Book, 0, len(books))
	for _, book := range books {
		out = append(out, fromDomainBook(book))
	}
	return out
}

func fromDomainAuthor(author *catalogdomain.Author) Author {
	return Author{ID: author.ID, Name: author.Name}
}

// Get /api/books
// List all books
func (api *BookAPI) ListBooks(c *gin.Context) {
	books, err := api.service.ListBooks(c.Request.Context())
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainBookList(books))
}

// Get /api/books/:bookId
// Find book by ID
func (api *BookAPI) GetBookById(c *gin.Context) {
	book, err := api.service.GetBook(c.Request.Context(), c.Param("bookId"))
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainBook(book))
}

// Post /api/books
// Add a new book to the catalog
func (api *BookAPI) AddBook(c *gin.Context) {
	var payload Book
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	book := &catalogdomain.Book{
		Title:    payload.Title,
		AuthorID: payload.AuthorID,
		Price:    payload.Price,
		Stock:    payload.Stock,
		Genres:   payload.Genres,
	}
	saved, err := api.service.CreateBook(c.Request.Context(), book)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromDomainBook(saved))
}

// Put /api/books/:bookId
// Update an existing book
func (api *BookAPI) UpdateBook(c *gin.Context) {
	var payload Book
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	book := &catalogdomain.Book{
		ID:       c.Param("bookId"),
		Title:    payload.Title,
		AuthorID: payload.AuthorID,
		Price:    payload.Price,
		Stock:    payload.Stock,
		Genres:   payload.Genres,
	}
	updated, err := api.service.UpdateBook(c.Request.Context(), book)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainBook(updated))
}

// Delete /api/books/:bookId
// Delete a book
func (api *BookAPI) DeleteBook(c *gin.Context) {
	if err := api.service.DeleteBook(c.Request.Context(), c.Param("bookId")); err != nil {
		respondCatalogError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get /api/authors
// List all authors
func (api *BookAPI) ListAuthors(c *gin.Context) {
	authors, err := api.service.ListAuthors(c.Request.Context())
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	out := make([]Author, 0, len(authors))
	for _, author := range authors {
		out = append(out, fromDomainAuthor(author))
	}
	c.JSON(http.StatusOK, out)
}

// Get /api/authors/:authorId
// Find author by ID
func (api *BookAPI) GetAuthorById(c *gin.Context) {
	author, err := api.service.GetAuthor(c.Request.Context(), c.Param("authorId"))
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainAuthor(author))
}

// Post /api/authors
// Add a new author
func (api *BookAPI) AddAuthor(c *gin.Context) {
	var payload Author
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	saved, err := api.service.CreateAuthor(c.Request.Context(), &catalogdomain.Author{Name: payload.Name})
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromDomainAuthor(saved))
}

// Put /api/authors/:authorId
// Update an existing author
func (api *BookAPI) UpdateAuthor(c *gin.Context) {
	var payload Author
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	author := &catalogdomain.Author{ID: c.Param("authorId"), Name: payload.Name}
	updated, err := api.service.UpdateAuthor(c.Request.Context(), author)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainAuthor(updated))
}

// Delete /api/authors/:authorId
// Delete an author
func (api *BookAPI) DeleteAuthor(c *gin.Context) {
	if err := api.service.DeleteAuthor(c.Request.Context(), c.Param("authorId")); err != nil {
		respondCatalogError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
