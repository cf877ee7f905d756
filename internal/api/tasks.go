package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ghaggin/taskboard/internal/model"
	"github.com/ghaggin/taskboard/internal/repository"
	"github.com/go-chi/chi/v5"
)

const (
	attachmentField = "attachment"
)

// taskForm is the multipart (or urlencoded) body of task create/update.
type taskForm struct {
	Title     string
	DueDate   string
	Completed *bool
}

func (h *handler) parseTaskForm(w http.ResponseWriter, r *http.Request) (taskForm, error) {
	var f taskForm

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	err := r.ParseMultipartForm(h.maxUploadBytes)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return f, invalid("Request body too large")
		}
		return f, invalid("Malformed form body")
	}

	f.Title = r.FormValue("title")
	f.DueDate = r.FormValue("dueDate")
	if v, ok := r.Form["completed"]; ok && len(v) > 0 {
		b, err := strconv.ParseBool(v[0])
		if err != nil {
			return f, invalid("completed must be true or false")
		}
		f.Completed = &b
	}
	return f, nil
}

// saveAttachment stores the uploaded file, if any.
func (h *handler) saveAttachment(r *http.Request) (*string, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	file, header, err := r.FormFile(attachmentField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	name, err := h.files.Save(r.Context(), header.Filename, file)
	if err != nil {
		return nil, err
	}
	return &name, nil
}

func taskID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, repository.ErrNotFound
	}
	return id, nil
}

func (h *handler) listTasks(w http.ResponseWriter, r *http.Request) {
	filter := model.ParseTaskFilter(r.URL.Query().Get("filter"))

	tasks, err := h.tasks.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *handler) getTask(w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	task, err := h.tasks.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *handler) createTask(w http.ResponseWriter, r *http.Request) {
	form, err := h.parseTaskForm(w, r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if form.Title == "" {
		writeError(w, r, h.log, invalid("Title is required"))
		return
	}

	attachment, err := h.saveAttachment(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	task := &model.Task{
		Title:      form.Title,
		Attachment: attachment,
	}
	if form.DueDate != "" {
		task.DueDate = &form.DueDate
	}

	if err := h.tasks.Insert(r.Context(), task); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (h *handler) updateTask(w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	// check first so an upload for a missing task is not stored
	if _, err := h.tasks.Get(r.Context(), id); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	form, err := h.parseTaskForm(w, r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	attachment, err := h.saveAttachment(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	task, err := h.tasks.Update(r.Context(), id, model.TaskPatch{
		Title:      &form.Title,
		DueDate:    &form.DueDate,
		Completed:  form.Completed,
		Attachment: attachment,
	})
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *handler) toggleTask(w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	task, err := h.tasks.Toggle(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *handler) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	if err := h.tasks.Delete(r.Context(), id); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
